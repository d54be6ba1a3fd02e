package commands

import (
	"fmt"
	"io"

	"github.com/ncobase/ncrud/token"
	"github.com/ncobase/ncrud/typebuf"
	"github.com/spf13/cobra"
)

// Frames travel on the command line as unpadded base64url.
func newFrameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "frame",
		Args:    cobra.NoArgs,
		Aliases: []string{"f"},
		Short:   "Wrap and unwrap type-prefixed message frames",
	}
	cmd.AddCommand(newFrameWrapCommand(), newFramePeekCommand(), newFrameExtractCommand())
	return cmd
}

func newFrameWrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "wrap TYPE [PAYLOAD]",
		Short:   "Prefix a payload, read from stdin when omitted, with a type name",
		Example: `  echo '{"id":1}' | ncrud frame wrap order.created`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 2 {
				payload = []byte(args[1])
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				payload = b
			}
			frame, err := typebuf.Prefix(args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.EncodeBase64URL(frame))
			return nil
		},
	}
}

func newFramePeekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "peek FRAME",
		Short: "Print the type name of a frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := token.DecodeBase64URL(args[0])
			if err != nil {
				return err
			}
			name, err := typebuf.Peek(frame)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newFrameExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FRAME",
		Short: "Print the payload of a frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := token.DecodeBase64URL(args[0])
			if err != nil {
				return err
			}
			_, payload, err := typebuf.Extract(frame)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
}
