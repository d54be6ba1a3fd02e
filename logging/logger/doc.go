// Package logger is a logrus logger whose entries carry the request trace id.
//
//	cleanup, err := logger.Init(cfg.Logger)
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
//	logger.Infof(ctx, "page served: %d items", n)
//
// Fields matching logger.redact_fields (glob patterns, case-insensitive) are
// masked before the entry is written.
package logger
