package fsworkspace

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/alignedworks/cvx/internal/domain"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

type templateData struct {
	APIBaseURL  string
	Timeout     string
	IdleTimeout string
	SessionFile string
	Cycles      int
}

func dataFor(spec domain.WorkspaceSpec) templateData {
	def := domain.DefaultConfig()
	d := templateData{
		APIBaseURL:  def.API.BaseURL,
		Timeout:     def.API.Timeout.String(),
		IdleTimeout: def.Session.IdleTimeout.String(),
		SessionFile: def.Session.File,
		Cycles:      def.Preview.Cycles,
	}
	if u := strings.TrimSpace(spec.APIBaseURL); u != "" {
		d.APIBaseURL = u
	}
	if spec.IdleTimeout > 0 {
		d.IdleTimeout = spec.IdleTimeout.String()
	}
	if spec.Cycles > 0 {
		d.Cycles = spec.Cycles
	}
	return d
}

// Init renders every template into spec.Root (cvx.yaml.tmpl -> cvx.yaml) and
// makes sure .cvx/ is private and git-ignored. Existing files are kept unless
// force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) (domain.InitResult, error) {
	var res domain.InitResult
	root := filepath.Clean(spec.Root)

	if err := os.MkdirAll(filepath.Join(root, ".cvx", "logs"), 0o700); err != nil {
		return res, &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: root, Err: err}
	}

	added, err := ensureGitignore(root)
	if err != nil {
		return res, &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}
	if added {
		res.Written = append(res.Written, ".gitignore")
	}

	data := dataFor(spec)
	entries, err := fs.Glob(templatesFS, "templates/*.tmpl")
	if err != nil {
		return res, &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: root, Err: err}
	}
	for _, p := range entries {
		name := strings.TrimSuffix(filepath.Base(p), ".tmpl")
		dst := filepath.Join(root, name)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				res.Kept = append(res.Kept, name)
				continue
			}
		}

		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, filepath.Base(p), data); err != nil {
			return res, &domain.OpError{Op: "fsworkspace.render", Kind: domain.KindExecution, Path: p, Err: err}
		}
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return res, &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		res.Written = append(res.Written, name)
	}
	return res, nil
}

// ensureGitignore appends the cvx section to .gitignore when it is missing and
// reports whether the file changed.
func ensureGitignore(root string) (bool, error) {
	const header = "# cvx"
	entries := []string{".cvx/"}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, err
		}
		body := header + "\n" + strings.Join(entries, "\n") + "\n"
		return true, os.WriteFile(path, []byte(body), 0o644)
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var out strings.Builder
	for _, e := range entries {
		if present[e] {
			continue
		}
		if out.Len() == 0 {
			if existing != "" && !strings.HasSuffix(existing, "\n") {
				out.WriteByte('\n')
			}
			out.WriteByte('\n')
			if !present[header] {
				out.WriteString(header + "\n")
			}
		}
		out.WriteString(e + "\n")
	}
	if out.Len() == 0 {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	if _, err := f.WriteString(out.String()); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}
