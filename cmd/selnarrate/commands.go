package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dshills/selnarrate/internal/config"
	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/event"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/script"
	"github.com/dshills/selnarrate/internal/session"
)

// SpeakCmd narrates steps given on the command line.
type SpeakCmd struct {
	Doc   string   `arg:"" help:"Markdown document" type:"existingfile"`
	Steps []string `arg:"" help:"Steps: [select-]next|prev[:word|line|object|block] or first|last[:unit]"`
}

// Run narrates each step on its own line.
func (c *SpeakCmd) Run(g *Globals, ctx context.Context) error {
	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}
	defer a.logStats()
	sess, err := a.open(c.Doc)
	if err != nil {
		return err
	}

	steps := make([]step, 0, len(c.Steps))
	for _, s := range c.Steps {
		st, err := parseStep(s, a.cfg.Step())
		if err != nil {
			return err
		}
		steps = append(steps, st)
	}
	return speak(ctx, sess, steps, a.cfg.EarconStyle(), os.Stdout)
}

func speak(ctx context.Context, sess *session.Session, steps []step, style narration.EarconStyle, out io.Writer) error {
	for _, st := range steps {
		desc, err := st.apply(ctx, sess)
		if err != nil {
			return fmt.Errorf("%s: %w", st, err)
		}
		fmt.Fprintln(out, narration.Render(desc, style))
	}
	return nil
}

// ScriptCmd runs a Lua script.
type ScriptCmd struct {
	Doc    string `arg:"" help:"Markdown document" type:"existingfile"`
	Script string `arg:"" help:"Lua script" type:"existingfile"`
}

// Run prints the script transcript.
func (c *ScriptCmd) Run(g *Globals, ctx context.Context) error {
	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}
	defer a.logStats()
	sess, err := a.open(c.Doc)
	if err != nil {
		return err
	}

	r := script.New(sess,
		script.WithGranularity(a.cfg.Step()),
		script.WithEarconStyle(a.cfg.EarconStyle()),
		script.WithStepLimit(a.cfg.Script.StepLimit),
		script.WithLogger(a.logger),
	)
	transcript, err := r.RunFile(ctx, c.Script)
	for _, line := range transcript {
		fmt.Println(line)
	}
	return err
}

// ReplCmd reads steps from stdin.
type ReplCmd struct {
	Doc   string `arg:"" help:"Markdown document" type:"existingfile"`
	Watch bool   `help:"Reload the config file when it changes"`
}

// Run reads until EOF or "quit".
func (c *ReplCmd) Run(g *Globals, ctx context.Context) error {
	a, err := newApp(g, os.Stderr)
	if err != nil {
		return err
	}
	defer a.logStats()
	sess, err := a.open(c.Doc)
	if err != nil {
		return err
	}

	r := &repl{sess: sess, unit: a.cfg.Step(), out: os.Stdout}
	r.style.Store(a.cfg.EarconStyle())

	if c.Watch && g.Config != "" {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.watch(ctx, g, r)
	}
	return r.loop(ctx, os.Stdin)
}

// watch applies config changes that can take effect without restarting.
func (a *app) watch(ctx context.Context, g *Globals, r *repl) {
	log := a.logger.WithComponent("watch")
	err := config.Watch(ctx, g.Config, config.DefaultDebounce, func(cfg config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed: %v", err)
			return
		}
		if g.LogLevel == "" {
			a.logger.SetLevel(cfg.Level())
		}
		r.style.Store(cfg.EarconStyle())
		log.Info("config reloaded from %s", g.Config)
		if err := a.bus.Publish(ctx, event.NewEvent(event.TopicConfigReloaded, cfg, "config")); err != nil {
			log.Warn("publishing reload: %v", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		log.Error("watching %s: %v", g.Config, err)
	}
}

type repl struct {
	sess  *session.Session
	unit  walker.Granularity
	style atomic.Value // narration.EarconStyle
	out   io.Writer
}

// loop executes one step per input line. Bad steps are reported and
// skipped; session errors end the loop.
func (r *repl) loop(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "selection":
			text := r.sess.Selection()
			if !r.sess.Selecting() || text == "" {
				text = r.sess.Catalog().Get(narration.MsgNothing)
			}
			fmt.Fprintln(r.out, text)
			continue
		}

		st, err := parseStep(line, r.unit)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		desc, err := st.apply(ctx, r.sess)
		if err != nil {
			return fmt.Errorf("%s: %w", st, err)
		}
		fmt.Fprintln(r.out, narration.Render(desc, r.style.Load().(narration.EarconStyle)))
	}
	return sc.Err()
}
