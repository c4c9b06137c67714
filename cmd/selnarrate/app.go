package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/selnarrate/internal/config"
	"github.com/dshills/selnarrate/internal/engine/document"
	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/event"
	"github.com/dshills/selnarrate/internal/logging"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/session"
)

// app holds the wiring shared by the commands.
type app struct {
	cfg    config.Config
	logger *logging.Logger
	bus    event.Bus
	sess   *session.Session
}

// newApp loads the configuration, applies flag overrides and sets up
// logging and the event bus. Logs go to logOut.
func newApp(g *Globals, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.Locale != "" {
		cfg.Locale = g.Locale
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.Level()
	lc.Output = logOut
	logger := logging.New(lc)

	bus := event.NewBus()
	busLog := logger.WithComponent("bus")
	_, err = bus.Subscribe("**", func(_ context.Context, env event.Envelope) error {
		if !busLog.Enabled(logging.LevelDebug) {
			return nil
		}
		if spoken, ok := event.PayloadAs[session.Spoken](env); ok {
			busLog.Debug("%s from %s: %d units", env.Topic, env.Metadata.Source, len(spoken.Descriptions))
			return nil
		}
		busLog.Debug("%s from %s", env.Topic, env.Metadata.Source)
		return nil
	}, event.WithPriority(event.PriorityLow))
	if err != nil {
		return nil, fmt.Errorf("subscribing event logger: %w", err)
	}

	return &app{cfg: cfg, logger: logger, bus: bus}, nil
}

// open parses the Markdown file at path and starts a session over it.
func (a *app) open(path string) (*session.Session, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	doc, err := document.Parse(src, document.WithBus(a.bus), document.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	sess := session.New(doc,
		session.WithCatalog(narration.NewCatalog(a.cfg.Locale)),
		session.WithBus(a.bus),
		session.WithLogger(a.logger),
	)
	a.logger.Debug("opened %s: %d leaves, %d words, %d blocks, session %s",
		path, doc.LeafCount(), sess.Count(walker.Word), sess.Count(walker.Block), sess.ID())
	a.sess = sess
	return sess, nil
}

// logStats reports session and event bus activity at debug level.
func (a *app) logStats() {
	if a.sess != nil {
		a.logger.Debug("session %s: cursor %v, %d selections applied, selecting=%t",
			a.sess.ID(), a.sess.Current(), a.sess.Document().SelectCount(), a.sess.Selecting())
	}
	st := a.bus.Stats()
	a.logger.WithComponent("bus").Debug("published %d events, ran %d handlers (%d errors, %d panics)",
		st.EventsPublished, st.HandlersExecuted, st.HandlerErrors, st.HandlerPanics)
}
