package surver

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// FileInfo is one file's entry in a Status response, matching the
// reference server's SurverFileInfo shape.
type FileInfo struct {
	Filename     string `json:"filename"`
	Format       string `json:"format"`
	Bytes        uint64 `json:"bytes"`
	BytesLoaded  uint64 `json:"bytes_loaded"`
	Reloading    bool   `json:"reloading"`
	LastLoadOk   bool   `json:"last_load_ok"`
	LastLoadSecs *int64 `json:"last_load_time,omitempty"`
}

// Status is the get_status response body: per-file progress plus the
// reporting server's protocol versions, polled by clients roughly every
// 250ms during an initial load or reload.
type Status struct {
	WellenVersion string     `json:"wellen_version"`
	SurferVersion string     `json:"surfer_version"`
	FileInfos     []FileInfo `json:"file_infos"`
}

// MarshalJSON is a hand-written, easyjson-shaped encoder: it writes the
// wire form directly onto a pooled buffer instead of going through
// reflection, the way `//go:generate easyjson` would for a type on a
// request as frequently polled as this one.
func (s Status) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`{"wellen_version":`)
	appendJSONString(buf, s.WellenVersion)
	buf.WriteString(`,"surfer_version":`)
	appendJSONString(buf, s.SurferVersion)
	buf.WriteString(`,"file_infos":[`)
	for i := range s.FileInfos {
		if i > 0 {
			buf.WriteByte(',')
		}
		s.FileInfos[i].appendJSON(buf)
	}
	buf.WriteString(`]}`)

	out := append([]byte(nil), buf.B...)
	return out, nil
}

func (f FileInfo) appendJSON(buf *bytebufferpool.ByteBuffer) {
	buf.WriteString(`{"filename":`)
	appendJSONString(buf, f.Filename)
	buf.WriteString(`,"format":`)
	appendJSONString(buf, f.Format)
	buf.WriteString(`,"bytes":`)
	buf.B = strconv.AppendUint(buf.B, f.Bytes, 10)
	buf.WriteString(`,"bytes_loaded":`)
	buf.B = strconv.AppendUint(buf.B, f.BytesLoaded, 10)
	buf.WriteString(`,"reloading":`)
	buf.B = strconv.AppendBool(buf.B, f.Reloading)
	buf.WriteString(`,"last_load_ok":`)
	buf.B = strconv.AppendBool(buf.B, f.LastLoadOk)
	if f.LastLoadSecs != nil {
		buf.WriteString(`,"last_load_time":`)
		buf.B = strconv.AppendInt(buf.B, *f.LastLoadSecs, 10)
	}
	buf.WriteByte('}')
}

// appendJSONString writes a JSON-quoted string, escaping only the
// characters that can appear in the values this package ever produces
// (filenames and fixed version strings -- no control-character handling
// is needed beyond the quote and backslash themselves).
func appendJSONString(buf *bytebufferpool.ByteBuffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	buf.WriteByte('"')
}
