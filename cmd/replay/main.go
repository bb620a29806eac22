package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Amanthuul/spellactivationoverlay/internal/catalogs"
	"github.com/Amanthuul/spellactivationoverlay/internal/effects"
	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
	"github.com/Amanthuul/spellactivationoverlay/internal/journal"
	"github.com/Amanthuul/spellactivationoverlay/internal/protocol"
)

// replay rebuilds a session's engine from the effect packs and re-feeds
// a recorded journal through it, verifying that the display command
// stream produces the same chained digests that were recorded live.
func main() {
	var (
		journalDir  = flag.String("journal", "", "session journal directory containing events-*.jsonl.zst")
		configDir   = flag.String("configs", "./configs", "config directory")
		effectsDir  = flag.String("effects", "", "effects directory (default: <configs>/effects)")
		versionName = flag.String("version", "wrath", "game version the session ran under")
		verbose     = flag.Bool("v", false, "print every display command")
	)
	flag.Parse()

	if *journalDir == "" {
		fmt.Fprintln(os.Stderr, "missing -journal")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	version, err := effects.ParseVersion(*versionName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "version:", err)
		os.Exit(1)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	ed := *effectsDir
	if ed == "" {
		ed = *configDir + "/effects"
	}
	decls, _, err := effects.LoadDir(ed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load effect packs:", err)
		os.Exit(1)
	}

	trace := &engine.TracingPresenter{}
	if *verbose {
		trace.Next = printPresenter{}
	}
	reg := engine.NewRegistry(trace, logger)
	compiler := effects.NewCompiler(version, reg, cats, nil, logger)
	dispatcher := engine.NewDispatcher(reg, logger)

	for _, d := range decls {
		_ = compiler.Declare(d)
	}

	files, err := journal.ListFiles(*journalDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list journal:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no journal files in", *journalDir)
		os.Exit(1)
	}

	var checked, mismatched uint64
	for _, path := range files {
		entries, err := journal.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read journal:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			if e.Event.Kind == protocol.EventReady {
				compiler.OnReady()
			} else {
				dispatcher.Apply(e.Event)
			}
			checked++
			if got := trace.Digest(); got != e.Digest {
				mismatched++
				fmt.Fprintf(os.Stderr, "digest mismatch at seq %d: got=%s want=%s\n", e.Seq, got, e.Digest)
			}
		}
	}

	if mismatched > 0 {
		fmt.Printf("replay FAILED: %d/%d entries mismatched\n", mismatched, checked)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d entries, final digest %s\n", checked, trace.Digest())
	for _, b := range reg.Buckets() {
		if key, ok := b.DisplayedKey(); ok {
			fmt.Printf("  %s shown at %s\n", b.Name, key.Describe())
		}
	}
}

// printPresenter echoes display commands for -v runs.
type printPresenter struct{}

func (printPresenter) ShowOverlay(bucket string, ref engine.OverlayRef, hint engine.TransitionHint) {
	fmt.Printf("SHOW overlay %s %s@%s suppress=%t\n", bucket, ref.Texture, ref.Position, hint.SuppressPulse)
}

func (printPresenter) HideOverlay(bucket string, ref engine.OverlayRef) {
	fmt.Printf("HIDE overlay %s %s@%s\n", bucket, ref.Texture, ref.Position)
}

func (printPresenter) ShowButton(bucket string, ref engine.ButtonRef, hint engine.TransitionHint) {
	fmt.Printf("SHOW button %s %d suppress=%t\n", bucket, ref.SpellID, hint.SuppressPulse)
}

func (printPresenter) HideButton(bucket string, ref engine.ButtonRef) {
	fmt.Printf("HIDE button %s %d\n", bucket, ref.SpellID)
}
