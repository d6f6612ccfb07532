package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/isomorph-labs/isomorph/pkg/parser"
)

// tokenDump is the JSON shape of one lexed token.
type tokenDump struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// NewTokensCommand creates the tokens command, a debugging aid that prints
// the raw token stream of a file.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", args[0], err)
			}

			res := parser.Lex(string(source))

			if rt.Renderer.IsJSON() {
				dump := make([]tokenDump, 0, len(res.Tokens))
				for _, tok := range res.Tokens {
					dump = append(dump, tokenDump{
						Type:    tok.Type.String(),
						Literal: tok.Literal,
						Line:    tok.Pos.Line,
						Column:  tok.Pos.Column,
					})
				}
				return rt.Renderer.JSON(dump)
			}

			rows := make([][]string, 0, len(res.Tokens))
			for _, tok := range res.Tokens {
				rows = append(rows, []string{
					strconv.Itoa(tok.Pos.Line),
					strconv.Itoa(tok.Pos.Column),
					tok.Type.String(),
					tok.Literal,
				})
			}
			rt.Renderer.Table([]string{"Line", "Col", "Type", "Literal"}, rows)

			for _, e := range res.Errors {
				rt.Renderer.Error("%s", e.Error())
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d lex error(s)", len(res.Errors))
			}
			return nil
		},
	}
}
