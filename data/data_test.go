package data_test

import (
	"context"
	"testing"

	"github.com/ncobase/ncrud/config"
	"github.com/ncobase/ncrud/data"
	_ "github.com/ncobase/ncrud/data/all"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrivers(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgres", "sqlite3"}, data.DatabaseDrivers())

	pg, err := data.GetDatabaseDriver("postgres")
	require.NoError(t, err)
	assert.Equal(t, "$3", pg.Placeholder(3))
	assert.Equal(t, `"created_at"`, pg.Quote("created_at"))

	my, err := data.GetDatabaseDriver("mysql")
	require.NoError(t, err)
	assert.Equal(t, "?", my.Placeholder(3))
	assert.Equal(t, "`a``b`", my.Quote("a`b"))

	lite, err := data.GetDatabaseDriver("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, "?2", lite.Placeholder(2))

	_, err = data.GetDatabaseDriver("oracle")
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	db, d, err := data.OpenDB(context.Background(), &config.Database{
		Driver: "sqlite3",
		Source: "file::memory:",
	})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite3", d.Name())

	var n int
	require.NoError(t, db.QueryRow("SELECT 1 + 1").Scan(&n))
	assert.Equal(t, 2, n)

	_, _, err = data.OpenDB(context.Background(), &config.Database{Driver: "sqlite3"})
	assert.ErrorIs(t, err, data.ErrNoSource)
}

func TestMessagingConfigErrors(t *testing.T) {
	_, err := data.NewKafkaWriter(&config.Kafka{})
	assert.ErrorIs(t, err, data.ErrNoBrokers)

	w, err := data.NewKafkaWriter(&config.Kafka{Brokers: []string{"localhost:9092"}, Topic: "t"})
	require.NoError(t, err)
	assert.Equal(t, "t", w.Topic)
	require.NoError(t, w.Close())

	_, err = data.NewKafkaReader(nil)
	assert.ErrorIs(t, err, data.ErrNoBrokers)

	_, err = data.DialAMQP(&config.RabbitMQ{})
	assert.Error(t, err)

	_, err = data.NewRedis(context.Background(), &config.Redis{})
	assert.Error(t, err)
}
