package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/justchen1369/acolyte-fight-sub000/logging"
)

// ConsoleSink prints one human-readable line per event.
type ConsoleSink struct {
	logger     *log.Logger
	categories map[string]struct{}
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	sink := &ConsoleSink{logger: log.New(w, "", log.LstdFlags)}
	if len(cfg.Categories) > 0 {
		sink.categories = make(map[string]struct{}, len(cfg.Categories))
		for _, category := range cfg.Categories {
			sink.categories[category] = struct{}{}
		}
	}
	return sink
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	if s.categories != nil {
		if _, ok := s.categories[event.Category]; !ok {
			return nil
		}
	}
	s.logger.Print(FormatLine(event))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

// FormatLine renders the console representation of an event.
func FormatLine(event logging.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] tick=%d actor=%s severity=%s", event.Type, event.Tick, formatEntity(event.Actor), event.Severity)
	if event.MatchID != "" {
		fmt.Fprintf(&b, " match=%s", event.MatchID)
	}
	if len(event.Targets) > 0 {
		parts := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			parts = append(parts, formatEntity(target))
		}
		fmt.Fprintf(&b, " targets=%s", strings.Join(parts, ","))
	}
	if event.Payload != nil {
		data, err := json.Marshal(event.Payload)
		if err != nil {
			fmt.Fprintf(&b, " payload=%v", event.Payload)
		} else {
			fmt.Fprintf(&b, " payload=%s", data)
		}
	}
	return b.String()
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}
