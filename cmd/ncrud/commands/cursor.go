package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/ncrud/cursor"
	"github.com/spf13/cobra"
)

func newCursorCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:     "cursor",
		Args:    cobra.NoArgs,
		Aliases: []string{"c"},
		Short:   "Encode and decode keyset page cursors",
	}
	cmd.PersistentFlags().StringVarP(&key, "key", "k", "int64", "id type: int32, int64, uint64 or uuid")
	cmd.AddCommand(newCursorEncodeCommand(&key), newCursorDecodeCommand(&key))
	return cmd
}

func newCursorEncodeCommand(key *string) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:     "encode ID",
		Short:   "Encode a row id and optional timestamp",
		Example: "  ncrud cursor encode 42 --at 2024-03-01T09:00:00Z",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ts *time.Time
			if at != "" {
				t, err := time.Parse(time.RFC3339Nano, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				ts = &t
			}

			var tok string
			switch *key {
			case "int32":
				n, err := strconv.ParseInt(args[0], 10, 32)
				if err != nil {
					return err
				}
				tok = cursor.New(int32(n), ts).String()
			case "int64":
				n, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return err
				}
				tok = cursor.New(n, ts).String()
			case "uint64":
				n, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				tok = cursor.New(n, ts).String()
			case "uuid":
				id, err := uuid.Parse(args[0])
				if err != nil {
					return err
				}
				tok = cursor.New(id, ts).String()
			default:
				return fmt.Errorf("unsupported key type %q", *key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 timestamp of the row")
	return cmd
}

func newCursorDecodeCommand(key *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Print the id and timestamp inside a cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch *key {
			case "int32":
				return printCursor[int32](out, args[0])
			case "int64":
				return printCursor[int64](out, args[0])
			case "uint64":
				return printCursor[uint64](out, args[0])
			case "uuid":
				return printCursor[uuid.UUID](out, args[0])
			default:
				return fmt.Errorf("unsupported key type %q", *key)
			}
		},
	}
}

func printCursor[K cursor.Key](w io.Writer, tok string) error {
	c, ok := cursor.Parse[K](tok)
	if !ok {
		return cursor.ErrInvalid
	}
	fmt.Fprintf(w, "id\t%v\n", c.ID)
	if c.Timestamp != nil {
		fmt.Fprintf(w, "at\t%s\n", c.Timestamp.UTC().Format(time.RFC3339Nano))
	}
	return nil
}
