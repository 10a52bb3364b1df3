package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/deepgram/assistant/internal/domain/generation"
	generationsvc "github.com/deepgram/assistant/internal/services/generation"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	contentType string
	tone        string
	length      int
	keywords    string
	raw         bool
}

func (f *generateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.contentType, "type", "t", string(generation.ContentBlog), "Content type (blog, email, social, story, code, summary)")
	cmd.Flags().StringVar(&f.tone, "tone", string(generation.ToneProfessional), "Tone (professional, casual, friendly, formal, humorous)")
	cmd.Flags().IntVarP(&f.length, "length", "l", generation.DefaultLength, "Approximate length in words")
	cmd.Flags().StringVarP(&f.keywords, "keywords", "k", "", "Comma separated keywords to include")
}

func (f *generateFlags) params(args []string) generation.Params {
	return generation.Params{
		ContentType:     generation.ContentType(f.contentType),
		Topic:           strings.Join(args, " "),
		Tone:            generation.Tone(f.tone),
		Length:          f.length,
		IncludeKeywords: strings.TrimSpace(f.keywords) != "",
		Keywords:        f.keywords,
	}
}

func newPromptCmd(a *app) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "prompt <topic>",
		Short: "Print the generation prompt for a topic without calling the provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, prompt, err := generationsvc.Prepare(flags.params(args))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate content for a topic and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, prompt, err := generationsvc.Prepare(flags.params(args))
			if err != nil {
				return err
			}

			chatService, err := a.newChat(a.cfg)
			if err != nil {
				return err
			}

			content, err := chatService.Complete(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !flags.raw && isTerminal(out) {
				content = renderTerminal(content)
			}
			_, err = fmt.Fprintln(out, content)
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// renderTerminal styles markdown for the terminal, returning it unchanged
// if rendering fails.
func renderTerminal(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create markdown renderer")
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to render markdown")
		return markdown
	}
	return rendered
}
