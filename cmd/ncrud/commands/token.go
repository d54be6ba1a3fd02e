package commands

import (
	"fmt"
	"strings"

	"github.com/ncobase/ncrud/token"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "token",
		Args:    cobra.NoArgs,
		Aliases: []string{"t"},
		Short:   "Encode and decode continuation tokens",
	}
	cmd.AddCommand(newTokenEncodeCommand(), newTokenDecodeCommand())
	return cmd
}

func newTokenEncodeCommand() *cobra.Command {
	var types []string

	cmd := &cobra.Command{
		Use:   "encode VALUE...",
		Short: "Encode one to three values",
		Example: `  ncrud token encode -t int64 -t datetime 42 2024-03-01T09:00:00Z
  ncrud token encode -t guid,string 6ba7b810-9dad-11d1-80b4-00c04fd430c8 abc`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(types) != len(args) {
				return fmt.Errorf("got %d values but %d types", len(args), len(types))
			}
			fields := make([]token.Field, len(args))
			for i, arg := range args {
				tag, ok := token.ParseTag(strings.ToLower(types[i]))
				if !ok {
					return fmt.Errorf("unknown type %q, want one of %s", types[i], tagNames())
				}
				f, err := token.ParseValue(tag, arg)
				if err != nil {
					return err
				}
				fields[i] = f
			}
			tok, err := token.EncodeFields(fields...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "value type, once per value")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newTokenDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Print the typed values inside a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := token.Decode(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range fields {
				fmt.Fprintf(out, "%s\t%s\n", f.Tag, f.String())
			}
			return nil
		},
	}
}

func tagNames() string {
	names := make([]string, 0, 11)
	for t := token.TagBool; t <= token.TagString; t++ {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
