package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/admin"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/listing"
)

// ErrSignedOut ends a screen whose session went away.
var ErrSignedOut = errors.New("signed out")

type ScreenConfig[T listing.Patchable[T]] struct {
	Title      string
	Path       string
	Controller *listing.Controller[T]
	Gate       *admin.Gate
	Columns    []Column[T]
	// Verbs are shortcut commands for status changes, e.g. "verify" ->
	// "verified".
	Verbs map[string]string
}

// Screen is one interactive admin list: a table of the filtered rows and a
// command prompt underneath.
type Screen[T listing.Patchable[T]] struct {
	term *Terminal
	cfg  ScreenConfig[T]
}

func NewScreen[T listing.Patchable[T]](term *Terminal, cfg ScreenConfig[T]) *Screen[T] {
	if cfg.Title == "" {
		cfg.Title = cfg.Controller.Resource()
	}
	return &Screen[T]{term: term, cfg: cfg}
}

// Run opens the screen and processes commands until quit, end of input or
// the end of the session.
func (s *Screen[T]) Run(ctx context.Context) error {
	s.term.Navigate(s.cfg.Path)
	defer s.cfg.Gate.Close()
	if s.cfg.Gate.Start(ctx) != admin.StateAuthenticated {
		return s.signedOut(s.cfg.Gate.Err())
	}
	_ = s.cfg.Controller.Load(ctx)

	for {
		if s.cfg.Gate.State() != admin.StateAuthenticated {
			return s.signedOut(nil)
		}
		s.cfg.Gate.Guard(s.render)

		line, err := s.term.ReadLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			s.report(err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line against the controller and reports
// whether it asked to leave the screen.
func (s *Screen[T]) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	ctrl := s.cfg.Controller

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.help()
		return false, nil
	case "search":
		ctrl.SetSearch(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])))
		return false, nil
	case "status":
		if len(args) != 1 {
			return false, errors.New("usage: status <" + strings.Join(ctrl.Statuses(), "|") + "|all>")
		}
		return false, ctrl.SetStatusFilter(strings.ToLower(args[0]))
	case "category":
		if len(args) != 1 {
			return false, errors.New("usage: category <id|all>")
		}
		ctrl.SetCategoryFilter(args[0])
		return false, nil
	case "clear":
		ctrl.ResetFilter()
		return false, nil
	case "refresh":
		return false, ctrl.Load(ctx)
	case "delete":
		if len(args) != 1 {
			return false, errors.New("usage: delete <id>")
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		return false, ctrl.Delete(ctx, id)
	case "set":
		if len(args) != 2 {
			return false, errors.New("usage: set <id> <status>")
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		return false, ctrl.SetStatus(ctx, id, strings.ToLower(args[1]))
	}

	if status, ok := s.cfg.Verbs[cmd]; ok {
		if len(args) != 1 {
			return false, fmt.Errorf("usage: %s <id>", cmd)
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return false, err
		}
		return false, ctrl.SetStatus(ctx, id, status)
	}
	return false, fmt.Errorf("unknown command %q, type help", cmd)
}

// resolve accepts a full id or a prefix unique within the collection.
func (s *Screen[T]) resolve(raw string) (uuid.UUID, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}
	var match uuid.UUID
	found := 0
	for _, item := range s.cfg.Controller.Items() {
		if strings.HasPrefix(item.ItemID().String(), raw) {
			match = item.ItemID()
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("no %s with id %q", s.cfg.Controller.Resource(), raw)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("id %q is ambiguous", raw)
	}
}

func (s *Screen[T]) render() {
	ctrl := s.cfg.Controller
	view := ctrl.View()
	filter := ctrl.Filter()

	s.term.Printf("\n== %s (%d of %d) ==\n", s.cfg.Title, len(view), len(ctrl.Items()))
	if !filter.IsDefault() {
		s.term.Printf("filter: search=%q status=%s category=%s\n", filter.Search, filter.Status, filter.Category)
	}
	if counts := ctrl.CountByStatus(); len(counts) > 0 {
		s.term.Printf("%s\n", formatCounts(ctrl.Statuses(), counts))
	}

	switch ctrl.State() {
	case listing.ViewLoading:
		s.term.Printf("Loading...\n")
	case listing.ViewError:
		s.term.Printf("Failed to load %s: %v\nType refresh to try again.\n", ctrl.Resource(), ctrl.Err())
	case listing.ViewEmpty:
		if filter.IsDefault() {
			s.term.Printf("No %s yet.\n", ctrl.Resource())
		} else {
			s.term.Printf("No %s matches the current filter.\n", ctrl.Resource())
		}
	default:
		cols := append(append([]Column[T](nil), s.cfg.Columns...), Column[T]{
			Title: "actions",
			Value: func(item T) string { return s.actions(item.ItemID()) },
		})
		if err := RenderTable(s.term.Writer(), view, cols); err != nil {
			s.term.Printf("render: %v\n", err)
		}
	}
}

// actions names the verbs usable on a row, or "..." while a change to it is
// still in flight.
func (s *Screen[T]) actions(id uuid.UUID) string {
	if s.cfg.Controller.InFlight(id) {
		return "..."
	}
	targets := s.cfg.Controller.Actions(id)
	out := make([]string, 0, len(targets))
	for _, target := range targets {
		out = append(out, s.verbFor(target))
	}
	return strings.Join(out, ",")
}

func (s *Screen[T]) verbFor(status string) string {
	for verb, target := range s.cfg.Verbs {
		if target == status {
			return verb
		}
	}
	return "set " + status
}

func (s *Screen[T]) report(err error) {
	var mutationErr *listing.MutationError
	switch {
	case errors.As(err, &mutationErr):
		// Already shown through the notifier.
	case errors.Is(err, listing.ErrCancelled):
		s.term.Printf("cancelled\n")
	default:
		s.term.Printf("error: %v\n", err)
	}
}

// signedOut closes the screen. cause is set when the session could not be
// checked at all, in which case it may still be valid.
func (s *Screen[T]) signedOut(cause error) error {
	if cause != nil {
		s.term.Printf("Could not reach the API to check your session: %v\n", cause)
		return fmt.Errorf("%w: %w", ErrSignedOut, cause)
	}
	s.term.Printf("Your session has ended. Sign in again (%s): desa-admin login\n", admin.LoginPath)
	return ErrSignedOut
}

func (s *Screen[T]) help() {
	verbs := make([]string, 0, len(s.cfg.Verbs))
	for verb := range s.cfg.Verbs {
		verbs = append(verbs, verb+" <id>")
	}
	sort.Strings(verbs)
	s.term.Printf("commands: search <text>, status <value|all>, category <id|all>, clear, refresh, delete <id>, set <id> <status>")
	if len(verbs) > 0 {
		s.term.Printf(", %s", strings.Join(verbs, ", "))
	}
	s.term.Printf(", quit\n")
}

func formatCounts(statuses []string, counts map[string]int) string {
	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", status, counts[status]))
	}
	return strings.Join(parts, "  ")
}
