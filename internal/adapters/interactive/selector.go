package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// pauser is implemented by progress sinks that draw on the terminal
type pauser interface {
	Pause() (resume func())
}

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
	sink   usecase.ProgressSink
	run    func(prompt promptui.Select) (int, error)
}

// NewSelectorAdapter creates a new selector adapter. A running spinner of sink is paused
// while the prompt is shown.
func NewSelectorAdapter(cfg *config.RuntimeConfig, sink usecase.ProgressSink) *SelectorAdapter {
	return &SelectorAdapter{config: cfg, sink: sink, run: runSelect}
}

// SelectOption asks the user to pick one of options
func (s *SelectorAdapter) SelectOption(ctx context.Context, prompt string, options []string) (int, error) {
	if s.config.NonInteractive {
		return 0, fmt.Errorf("%s: %w", prompt, domain.ErrNonInteractive)
	}

	if len(options) == 0 {
		return 0, fmt.Errorf("no options provided for selection")
	}

	if len(options) == 1 {
		return 0, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, type to filter, Enter to select"),
	}

	if p, ok := s.sink.(pauser); ok {
		defer p.Pause()()
	}

	index, err := s.run(promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	})
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

func runSelect(prompt promptui.Select) (int, error) {
	index, _, err := prompt.Run()
	return index, err
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.InteractiveSelector = (*SelectorAdapter)(nil)
