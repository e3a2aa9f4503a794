// Package surver implements the remote streaming wire protocol described
// in spec.md §4.7: a token-gated HTTP surface exposing a loaded waveform
// file's hierarchy, time table and signal bodies, with poll-driven reload.
// Transport is ported from the teacher's pkg/server (fiber-based HTTP
// service with a poll/broadcast loop), re-purposed from a stats dashboard
// to this wire protocol.
package surver

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	fiber "github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	recovermiddleware "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ripopov/surfer-sub001/pkg/loader"
	"github.com/ripopov/surfer-sub001/pkg/log"
)

// FileState is one served file's mutable server-side bookkeeping. The raw
// hierarchy bytes, format tag and header/body byte counts are supplied by
// the caller at construction time; parsing the wave file itself is outside
// this package's scope.
type FileState struct {
	Path      string
	Filename  string
	Format    string
	Hierarchy []byte // opaque bincode-equivalent blob, lz4-compressed on send
	HeaderLen uint64
	BodyLen   uint64

	BodyProgress atomic.Uint64
	Loader       *loader.Loader

	mu             sync.RWMutex
	timeTable      []uint64
	lastMtime      time.Time
	haveReloadedAt bool
}

// SetTimeTable installs the time table once the body finishes parsing.
// get_time_table polls until this has been called.
func (f *FileState) SetTimeTable(table []uint64) {
	f.mu.Lock()
	f.timeTable = table
	f.mu.Unlock()
}

func (f *FileState) snapshotTimeTable() []uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.timeTable
}

// Server is the token-gated HTTP front for a fixed set of loaded files.
type Server struct {
	app   *fiber.App
	token string
	files []*FileState
}

// New builds a Server for the given token and file set. token must be at
// least MinTokenLen characters; callers generate one with GenerateToken
// when the user did not supply one.
func New(token string, files []*FileState) (*Server, error) {
	if len(token) < MinTokenLen {
		return nil, fmt.Errorf("surver: token %q is too short, at least %d characters are required", token, MinTokenLen)
	}

	s := &Server{token: token, files: files}

	app := fiber.New(fiber.Config{
		ServerHeader: HeaderServerValue,
	})
	app.Use(recovermiddleware.New())
	// get_hierarchy/get_signals bodies are already lz4/zstd-compressed;
	// this only negotiates br/gzip for the info page and get_time_table.
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(func(c fiber.Ctx) error {
		c.Set(HeaderServer, HeaderServerValue)
		c.Set(HeaderWellenVersion, WellenVersion)
		c.Set(HeaderSurferVersion, SurferVersion)
		c.Set(HeaderCacheControl, CacheControlNoCache)
		return c.Next()
	})
	app.Get("/*", s.handleRequest)

	s.app = app
	return s, nil
}

// Run starts listening, blocking until ctx is cancelled or Listen fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()
	log.Logger.Info().Str("addr", addr).Int("files", len(s.files)).Msg("surver listening")
	return s.app.Listen(addr)
}

// handleRequest implements the path shape
// /<token>[/<file_index>]/<command>[/<arg>...], matching the reference
// server's single entry point (surver/src/server.rs `handle`).
func (s *Server) handleRequest(c fiber.Ctx) error {
	path := c.Params("*")
	segments := splitPath(path)

	if len(segments) == 0 || segments[0] != s.token {
		log.Logger.Warn().Str("path", path).Msg("rejected request with invalid or missing token")
		return c.Status(fiber.StatusNotFound).Send(nil)
	}

	fileIndex, cmdIdx := -1, 1
	if len(segments) >= 2 {
		if idx, err := strconv.Atoi(segments[1]); err == nil {
			fileIndex, cmdIdx = idx, 2
		}
	}

	if len(segments) <= cmdIdx {
		c.Set("Content-Type", ContentTypeHTML)
		return c.Status(fiber.StatusOK).SendString(s.infoPage())
	}

	cmd := segments[cmdIdx]
	args := segments[cmdIdx+1:]
	return s.handleCommand(c, cmd, fileIndex, args)
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (s *Server) handleCommand(c fiber.Ctx, cmd string, fileIndex int, args []string) error {
	if cmd == "get_status" && len(args) == 0 {
		return s.handleGetStatus(c)
	}

	file, ok := s.fileAt(fileIndex)
	if !ok {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}

	switch {
	case cmd == "get_hierarchy" && len(args) == 0:
		return s.handleGetHierarchy(c, file)
	case cmd == "get_time_table" && len(args) == 0:
		return s.handleGetTimeTable(c, file)
	case cmd == "get_signals":
		return s.handleGetSignals(c, file, args)
	case cmd == "reload" && len(args) == 0:
		return s.handleReload(c, file)
	default:
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
}

func (s *Server) fileAt(idx int) (*FileState, bool) {
	if idx < 0 || idx >= len(s.files) {
		return nil, false
	}
	return s.files[idx], true
}

func (s *Server) handleGetStatus(c fiber.Ctx) error {
	c.Set("Content-Type", ContentTypeJSON)
	return c.Send(mustJSON(s.statusSnapshot()))
}

func (s *Server) statusSnapshot() Status {
	infos := make([]FileInfo, 0, len(s.files))
	for _, f := range s.files {
		st := f.Loader.StatusSnapshot()
		infos = append(infos, FileInfo{
			Filename:    f.Filename,
			Format:      f.Format,
			Bytes:       f.BodyLen + f.HeaderLen,
			BytesLoaded: f.BodyProgress.Load() + f.HeaderLen,
			Reloading:   st.Reloading,
			LastLoadOk:  st.LastReloadOk,
		})
	}
	return Status{WellenVersion: WellenVersion, SurferVersion: SurferVersion, FileInfos: infos}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Logger.Error().Err(err).Msg("surver: failed to marshal json response")
		return []byte("{}")
	}
	return b
}

func (s *Server) handleGetHierarchy(c fiber.Ctx, f *FileState) error {
	raw := append([]byte(f.Format+"\x00"), f.Hierarchy...)
	compressed, err := compressHierarchy(raw)
	if err != nil {
		log.Logger.Error().Err(err).Str("file", f.Filename).Msg("surver: hierarchy compression failed")
		return c.Status(fiber.StatusInternalServerError).Send(nil)
	}
	c.Set("Content-Type", ContentTypeOctet)
	return c.Send(compressed)
}

func (s *Server) handleGetTimeTable(c fiber.Ctx, f *FileState) error {
	for {
		if table := f.snapshotTimeTable(); table != nil {
			c.Set("Content-Type", ContentTypeOctet)
			return c.Send(mustJSON(table))
		}
		select {
		case <-c.RequestCtx().Done():
			return c.Status(fiber.StatusRequestTimeout).Send(nil)
		case <-time.After(statusPollIntervalMs * time.Millisecond):
		}
	}
}

func (s *Server) handleGetSignals(c fiber.Ctx, f *FileState, idArgs []string) error {
	ids := make([]uint64, 0, len(idArgs))
	for _, a := range idArgs {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		c.Set("Content-Type", ContentTypeOctet)
		return c.Send(nil)
	}

	if err := f.Loader.AwaitIDs(c.RequestCtx(), ids); err != nil {
		return c.Status(fiber.StatusRequestTimeout).Send(nil)
	}

	var countPrefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(countPrefix[:], uint64(len(ids)))
	out := append([]byte(nil), countPrefix[:n]...)
	for _, id := range ids {
		sig, _ := f.Loader.Get(id)
		raw, err := json.Marshal(sig)
		if err != nil {
			log.Logger.Error().Err(err).Uint64("id", id).Msg("surver: failed to encode signal")
			continue
		}
		out = append(out, compressSignal(raw)...)
	}

	c.Set("Content-Type", ContentTypeOctet)
	return c.Send(out)
}

func (s *Server) handleReload(c fiber.Ctx, f *FileState) error {
	meta, err := os.Stat(f.Path)
	if err != nil {
		c.Set("Content-Type", ContentTypeJSON)
		return c.Status(fiber.StatusNotFound).SendString("error: file not found")
	}

	lastReloadOk := f.Loader.StatusSnapshot().LastReloadOk

	f.mu.Lock()
	unchanged := f.haveReloadedAt && f.lastMtime.Equal(meta.ModTime()) && lastReloadOk
	if !unchanged {
		f.lastMtime = meta.ModTime()
		f.haveReloadedAt = true
	}
	f.mu.Unlock()

	if unchanged {
		c.Set("Content-Type", ContentTypeJSON)
		return c.Status(fiber.StatusNotModified).SendString("info: file unchanged")
	}

	f.BodyProgress.Store(0)
	// RequestReload marks reloading=true/last_reload_ok=false synchronously
	// before enqueueing the Reload message, so the snapshot below already
	// reflects it -- the actual reopen work still happens asynchronously.
	f.Loader.RequestReload()

	c.Set("Content-Type", ContentTypeJSON)
	return c.Status(fiber.StatusAccepted).Send(mustJSON(s.statusSnapshot()))
}

func (s *Server) infoPage() string {
	var rows strings.Builder
	for _, f := range s.files {
		bytesLoaded := f.BodyProgress.Load() + f.HeaderLen
		total := f.BodyLen + f.HeaderLen
		mtime := "unknown"
		f.mu.RLock()
		if f.haveReloadedAt {
			mtime = f.lastMtime.UTC().Format("2006-01-02 15:04:05 UTC")
		}
		f.mu.RUnlock()
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d / %d</td><td>%s</td></tr>\n", f.Filename, bytesLoaded, total, mtime)
	}
	return fmt.Sprintf(`<!DOCTYPE html><html lang="en">
<head><title>Surfer Remote Server</title></head>
<body>
<h1>Surfer Remote Server</h1>
<b>Wellen version:</b> %s<br>
<b>Surfer version:</b> %s<br>
<table border="1" cellpadding="5" cellspacing="0">
<tr><th>Filename</th><th>Load progress</th><th>File modification time</th></tr>
%s
</table>
</body></html>`, WellenVersion, SurferVersion, rows.String())
}

