package ufs

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

const octetStream = "application/octet-stream"

// contentTypes wins over the host's mime tables, which differ between
// systems and add charset parameters to text types.
var contentTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
}

// GuessContentType picks the content type stored with an object. The key's
// extension decides first, then the data is sniffed. Keys naming a prefix
// (empty or ending in a separator) and dotfiles without an extension are
// application/octet-stream unless the data says otherwise.
func GuessContentType(key string, data []byte) string {
	key = strings.ReplaceAll(key, `\`, Separator)
	if key == "" || strings.HasSuffix(key, Separator) {
		return octetStream
	}

	if ext := keyExt(key); ext != "" {
		if ct, ok := contentTypes[ext]; ok {
			return ct
		}
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}

	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return octetStream
}

// keyExt returns the lower-cased extension of the key's last segment
func keyExt(key string) string {
	name := path.Base(key)
	if strings.LastIndex(name, ".") <= 0 {
		return ""
	}
	return strings.ToLower(path.Ext(name))
}
