package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Amanthuul/spellactivationoverlay/internal/catalogs"
	"github.com/Amanthuul/spellactivationoverlay/internal/effects"
	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
	"github.com/Amanthuul/spellactivationoverlay/internal/gamedb"
	"github.com/Amanthuul/spellactivationoverlay/internal/journal"
	"github.com/Amanthuul/spellactivationoverlay/internal/protocol"
	"github.com/Amanthuul/spellactivationoverlay/internal/tuning"
)

func main() {
	var (
		addr       = flag.String("addr", ":8470", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("tuning not found, using defaults", "path", tp)
		} else {
			logger.Error("load tuning", "error", err)
			os.Exit(1)
		}
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Error("load catalogs", "error", err)
		os.Exit(1)
	}

	effectsDir := tune.EffectsDir
	if effectsDir == "" {
		effectsDir = filepath.Join(*configDir, "effects")
	}
	decls, effectsDigest, err := effects.LoadDir(effectsDir)
	if err != nil {
		logger.Error("load effect packs", "error", err)
		os.Exit(1)
	}

	version, err := effects.ParseVersion(tune.GameVersion)
	if err != nil {
		logger.Error("bad game version", "error", err)
		os.Exit(1)
	}

	var db *gamedb.DB
	if tune.GameDBPath != "" {
		db, err = gamedb.Open(tune.GameDBPath)
		if err != nil {
			logger.Error("open gamedb", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if tune.ImportOnRun {
			if err := db.ImportCatalogs(cats); err != nil {
				logger.Error("import catalogs", "error", err)
				os.Exit(1)
			}
		}
	}

	// The JSON catalogs are the default metadata source; the sqlite
	// store serves when configured (it carries the full game database
	// rather than the curated subset).
	var meta effects.MetadataSource = cats
	if db != nil && tune.UseGameDB {
		meta = db
	}

	srv := &server{
		log:           logger,
		version:       version,
		decls:         decls,
		meta:          meta,
		db:            db,
		journalDir:    tune.JournalDir,
		effectsDigest: effectsDigest,
		spellsDigest:  cats.Spells.Digest,
		talentsDigest: cats.Talents.Digest,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.handleWS)

	logger.Info("listening", "addr", *addr, "version", version.String(), "effects", len(decls))
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

type server struct {
	log     *slog.Logger
	version effects.GameVersion
	decls   []effects.Declaration
	meta    effects.MetadataSource
	db      *gamedb.DB

	journalDir string

	effectsDigest string
	spellsDigest  string
	talentsDigest string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWS runs one addon session. Each session owns a private engine,
// and the whole session runs on this one goroutine, which is the
// single-threaded invariant the core relies on.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("upgrade", "error", err)
		return
	}
	defer conn.Close()

	var hello protocol.HelloMsg
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != protocol.TypeHello {
		_ = conn.WriteJSON(protocol.AckMsg{
			Type: protocol.TypeAck, AckFor: protocol.TypeHello,
			Code: protocol.ErrProtoBadRequest, Message: "expected HELLO",
		})
		return
	}

	sessionID := fmt.Sprintf("s%d", time.Now().UnixNano())
	log := s.log.With("session", sessionID, "client", hello.ClientName)

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		GameVersion:     s.version.String(),
		Catalogs: protocol.CatalogDigests{
			SpellsDigest:  s.spellsDigest,
			TalentsDigest: s.talentsDigest,
			EffectsDigest: s.effectsDigest,
		},
	}
	if err := conn.WriteJSON(welcome); err != nil {
		return
	}

	trace := &engine.TracingPresenter{Next: &wsPresenter{conn: conn, log: log}}
	reg := engine.NewRegistry(trace, log)
	compiler := effects.NewCompiler(s.version, reg, s.meta, nil, log)
	dispatcher := engine.NewDispatcher(reg, log)

	// Declarations queue until the client reports READY (talent data
	// may not exist yet on the game side).
	for _, d := range s.decls {
		_ = compiler.Declare(d)
	}

	var jrnl *journal.Journal
	if s.journalDir != "" {
		jrnl = journal.New(filepath.Join(s.journalDir, sessionID))
		defer jrnl.Close()
	}

	for {
		var ev protocol.EventMsg
		if err := conn.ReadJSON(&ev); err != nil {
			log.Info("session closed", "error", err)
			return
		}
		if ev.Type != protocol.TypeEvent {
			_ = conn.WriteJSON(protocol.AckMsg{
				Type: protocol.TypeAck, AckFor: ev.Type,
				Code: protocol.ErrProtoBadRequest, Message: "expected EVENT",
			})
			continue
		}

		if ev.Kind == protocol.EventReady {
			compiler.OnReady()
		} else if code := dispatcher.Apply(ev); code != "" {
			_ = conn.WriteJSON(protocol.AckMsg{
				Type: protocol.TypeAck, AckFor: ev.Kind, Code: code,
			})
		}

		if jrnl != nil {
			entry, err := jrnl.Record(ev, trace.Digest())
			if err != nil {
				log.Warn("journal write failed", "error", err)
			}
			s.db.IndexEntry(entry)
		}
	}
}

// wsPresenter forwards display commands to the addon client.
type wsPresenter struct {
	conn *websocket.Conn
	log  *slog.Logger
}

func (p *wsPresenter) send(m protocol.DisplayMsg) {
	m.Type = protocol.TypeDisplay
	if err := p.conn.WriteJSON(m); err != nil {
		p.log.Warn("display write failed", "error", err)
	}
}

func (p *wsPresenter) ShowOverlay(bucket string, ref engine.OverlayRef, hint engine.TransitionHint) {
	p.send(protocol.DisplayMsg{
		Bucket: bucket, Action: protocol.ActionShowOverlay,
		Overlay:       overlayPayload(ref),
		SuppressPulse: hint.SuppressPulse,
	})
}

func (p *wsPresenter) HideOverlay(bucket string, ref engine.OverlayRef) {
	p.send(protocol.DisplayMsg{
		Bucket: bucket, Action: protocol.ActionHideOverlay,
		Overlay: overlayPayload(ref),
	})
}

func (p *wsPresenter) ShowButton(bucket string, ref engine.ButtonRef, hint engine.TransitionHint) {
	p.send(protocol.DisplayMsg{
		Bucket: bucket, Action: protocol.ActionShowButton,
		Button:        &protocol.ButtonPayload{SpellID: ref.SpellID},
		SuppressPulse: hint.SuppressPulse,
	})
}

func (p *wsPresenter) HideButton(bucket string, ref engine.ButtonRef) {
	p.send(protocol.DisplayMsg{
		Bucket: bucket, Action: protocol.ActionHideButton,
		Button: &protocol.ButtonPayload{SpellID: ref.SpellID},
	})
}

func overlayPayload(ref engine.OverlayRef) *protocol.OverlayPayload {
	return &protocol.OverlayPayload{
		Texture:  ref.Texture,
		Position: ref.Position,
		Scale:    ref.Scale,
		Color:    ref.Color,
		Pulse:    ref.Pulse,
	}
}
