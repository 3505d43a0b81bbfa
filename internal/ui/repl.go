package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/themobileprof/vocalis/internal/interfaces"
	"github.com/themobileprof/vocalis/pkg/models"
)

// commandPrefix marks REPL commands
const commandPrefix = ":"

var errExit = errors.New("exit")

// Config wires the REPL to its collaborators
type Config struct {
	Processor interfaces.UtteranceProcessor
	Planner   interfaces.ActionPlanner
	Catalog   interfaces.IntentCatalog
	History   interfaces.HistoryStore // optional
	Logger    *log.Logger             // optional
	SessionID string
	In        io.Reader
	Out       io.Writer
	Color     bool
}

// REPL represents the interactive command-line interface
type REPL struct {
	processor interfaces.UtteranceProcessor
	planner   interfaces.ActionPlanner
	catalog   interfaces.IntentCatalog
	history   interfaces.HistoryStore
	logger    *log.Logger
	sessionID string
	scanner   *bufio.Scanner
	out       io.Writer
	styles    Styles
}

// NewREPL creates a new REPL interface
func NewREPL(cfg Config) *REPL {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &REPL{
		processor: cfg.Processor,
		planner:   cfg.Planner,
		catalog:   cfg.Catalog,
		history:   cfg.History,
		logger:    logger,
		sessionID: cfg.SessionID,
		scanner:   bufio.NewScanner(cfg.In),
		out:       cfg.Out,
		styles:    NewStyles(cfg.Out, cfg.Color),
	}
}

// Start begins the interactive loop. It returns nil on exit or end of input.
func (repl *REPL) Start() error {
	fmt.Fprintln(repl.out, repl.styles.Title.Render("Vocalis - offline voice command understanding"))
	fmt.Fprintln(repl.out, repl.styles.Muted.Render("Type ':help' for available commands, 'exit' to quit"))
	fmt.Fprintln(repl.out)

	for {
		input, ok := repl.readLine("> ")
		if !ok {
			if err := repl.scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(repl.out, "Goodbye!")
			return nil
		}
		if input == "" {
			continue
		}

		if err := repl.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(repl.out, "Goodbye!")
				return nil
			}
			fmt.Fprintln(repl.out, repl.styles.Error.Render("Error: "+err.Error()))
			fmt.Fprintln(repl.out)
		}
	}
}

// Execute runs a single command or utterance without the loop
func (repl *REPL) Execute(input string) error {
	err := repl.handleCommand(strings.TrimSpace(input))
	if errors.Is(err, errExit) {
		return nil
	}
	return err
}

func (repl *REPL) readLine(prompt string) (string, bool) {
	fmt.Fprint(repl.out, prompt)
	if !repl.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(repl.scanner.Text()), true
}

// handleCommand processes a single command. REPL commands start with ':'
// so that words like "help" still reach the classifier as utterances.
func (repl *REPL) handleCommand(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if len(parts) == 1 && (command == "exit" || command == "quit") {
		return errExit
	}
	if !strings.HasPrefix(command, commandPrefix) {
		// Treat as a spoken command
		return repl.handleQuery(input)
	}

	switch strings.TrimPrefix(command, commandPrefix) {
	case "help":
		return repl.showHelp()
	case "exit", "quit":
		return errExit
	case "intents":
		return repl.listIntents()
	case "explain":
		if len(args) == 0 {
			return fmt.Errorf("usage: :explain <utterance>")
		}
		return repl.explain(strings.Join(args, " "))
	case "history":
		limit := 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("usage: :history [count]")
			}
			limit = n
		}
		return repl.showHistory(limit)
	case "stats":
		return repl.showStats()
	case "clear-history":
		return repl.clearHistory()
	default:
		return fmt.Errorf("unknown command %s, type :help for available commands", command)
	}
}

// showHelp displays help information
func (repl *REPL) showHelp() error {
	fmt.Fprintln(repl.out, `
Available Commands:
  :help                   - Show this help message
  :intents                - List supported intents and example phrases
  :explain <utterance>    - Show how every intent scores an utterance
  :history [count]        - Show recent interactions
  :stats                  - Show how often each intent was recognized
  :clear-history          - Delete all recorded interactions
  :exit, exit, quit       - Exit

Anything else is treated as a spoken command.

Examples:
  > what's the weather like in new york
  > send a message to mom saying i'll be home soon
  > set brightness to 50%`)
	return nil
}

func (repl *REPL) listIntents() error {
	intents := repl.catalog.Intents()
	fmt.Fprintf(repl.out, "\nSupported intents (%d):\n\n", len(intents))
	for _, in := range intents {
		fmt.Fprintf(repl.out, "• %s\n", repl.styles.Intent.Render(string(in)))
		fmt.Fprintf(repl.out, "  %s\n", repl.styles.Muted.Render(strings.Join(repl.catalog.Exemplars(in), ", ")))
	}
	fmt.Fprintln(repl.out)
	return nil
}

func (repl *REPL) explain(input string) error {
	scores := repl.processor.Explain(input)
	sorted := make([]models.IntentScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	fmt.Fprintln(repl.out)
	for _, s := range sorted {
		fmt.Fprintf(repl.out, "  %-16s %s\n", s.Intent, repl.styles.Score.Render(fmt.Sprintf("%.3f", s.Score)))
	}
	fmt.Fprintln(repl.out)
	return nil
}

func (repl *REPL) showHistory(limit int) error {
	if repl.history == nil {
		return fmt.Errorf("history is disabled")
	}
	entries, err := repl.history.RecentResults(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(repl.out, "No interactions recorded yet.")
		return nil
	}

	fmt.Fprintln(repl.out, "\nRecent interactions:")
	for _, e := range entries {
		fmt.Fprintf(repl.out, "• %s\n", e.Input)
		fmt.Fprintf(repl.out, "  %s %s | %s\n",
			repl.styles.Intent.Render(string(e.Intent)),
			repl.styles.Score.Render(fmt.Sprintf("(%.2f)", e.Confidence)),
			e.Action)
	}
	fmt.Fprintln(repl.out)
	return nil
}

func (repl *REPL) showStats() error {
	if repl.history == nil {
		return fmt.Errorf("history is disabled")
	}
	counts, err := repl.history.IntentCounts()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if len(counts) == 0 {
		fmt.Fprintln(repl.out, "No interactions recorded yet.")
		return nil
	}

	intents := make([]models.Intent, 0, len(counts))
	for in := range counts {
		intents = append(intents, in)
	}
	sort.Slice(intents, func(i, j int) bool {
		if counts[intents[i]] != counts[intents[j]] {
			return counts[intents[i]] > counts[intents[j]]
		}
		return intents[i] < intents[j]
	})

	fmt.Fprintln(repl.out, "\nRecognized intents:")
	for _, in := range intents {
		fmt.Fprintf(repl.out, "  %-16s %d\n", repl.styles.Intent.Render(string(in)), counts[in])
	}
	fmt.Fprintln(repl.out)
	return nil
}

func (repl *REPL) clearHistory() error {
	if repl.history == nil {
		return fmt.Errorf("history is disabled")
	}
	if err := repl.history.ClearHistory(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintln(repl.out, "History cleared.")
	return nil
}

// handleQuery processes a spoken command and shows the planned action
func (repl *REPL) handleQuery(input string) error {
	result, err := repl.processor.Process(input)
	if err != nil {
		return fmt.Errorf("query processing failed: %w", err)
	}

	repl.printResult(result)

	action := repl.planner.Plan(result)
	if action.NeedsInput {
		answer, ok := repl.readLine(action.Prompt + " ")
		if !ok || answer == "" {
			fmt.Fprintln(repl.out, "Cancelled.")
			return nil
		}
		action.NeedsInput = false
		action.Params["message"] = answer
		action.Reply = "Sending message to " + action.Params["contact"]
	}

	repl.printAction(action)

	if repl.history != nil {
		if _, err := repl.history.LogResult(repl.sessionID, result, action); err != nil {
			repl.logger.Warn("failed to record interaction", "err", err)
		}
	}
	return nil
}

func (repl *REPL) printResult(result *models.NLPResult) {
	fmt.Fprintf(repl.out, "\n%s %s\n",
		repl.styles.Intent.Render(string(result.Intent)),
		repl.styles.Score.Render(fmt.Sprintf("(confidence: %.2f)", result.Confidence)))

	keys := make([]string, 0, len(result.Entities))
	for k := range result.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(repl.out, "  %s: %v\n", repl.styles.Key.Render(k), result.Entities[k])
	}
}

func (repl *REPL) printAction(action models.Action) {
	if action.Kind == models.ActionChat && action.Reply == "" {
		fmt.Fprintln(repl.out, repl.styles.Muted.Render("I'm not sure how to help with that yet."))
		fmt.Fprintln(repl.out)
		return
	}
	fmt.Fprintf(repl.out, "%s %s\n\n", repl.styles.Muted.Render("["+string(action.Kind)+"]"), repl.styles.Reply.Render(action.Reply))
}
