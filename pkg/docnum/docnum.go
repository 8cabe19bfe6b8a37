package docnum

import (
	"io"
	"os"
)

// PreparedDocument is one opened DOCX package together with the style
// registry and numbering engine built for it. Each prepared document owns
// its allocators exclusively; concurrent requests prepare their own
// instances and never share one.
type PreparedDocument struct {
	pkg    *DocumentPackage
	styles *StyleRegistry
	num    *NumberingEngine
	cfg    *Config
	log    *Logger
}

// Prepare opens a DOCX package and builds its per-document allocators.
func Prepare(r io.Reader) (*PreparedDocument, error) {
	return PrepareWithConfig(r, GetGlobalConfig())
}

// PrepareWithConfig opens a DOCX package with an explicit configuration.
func PrepareWithConfig(r io.Reader, cfg *Config) (*PreparedDocument, error) {
	if cfg == nil {
		cfg = GetGlobalConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pkg, err := Open(r)
	if err != nil {
		return nil, err
	}

	styles, err := NewStyleRegistry(pkg.StylesXML)
	if err != nil {
		return nil, err
	}
	num, err := NewNumberingEngine(pkg.NumberingXML)
	if err != nil {
		return nil, err
	}

	return &PreparedDocument{
		pkg:    pkg,
		styles: styles,
		num:    num,
		cfg:    cfg,
		log:    GetLogger(),
	}, nil
}

// PrepareFile opens a DOCX package from a file path.
func PrepareFile(path string) (*PreparedDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()
	return Prepare(f)
}

// Package exposes the underlying document package.
func (d *PreparedDocument) Package() *DocumentPackage {
	return d.pkg
}

// Styles exposes the per-document style registry.
func (d *PreparedDocument) Styles() *StyleRegistry {
	return d.styles
}

// Numbering exposes the per-document numbering engine.
func (d *PreparedDocument) Numbering() *NumberingEngine {
	return d.num
}

// Builder returns a content builder appending to the document body.
func (d *PreparedDocument) Builder() *DocumentBuilder {
	return NewDocumentBuilder(d.pkg, d.styles, d.num, d.cfg)
}

// Reconcile runs one numbering reconciliation pass for the given style.
// It belongs at the end of the pipeline, after all content mutations.
func (d *PreparedDocument) Reconcile(styleID string) (*ReconcileReport, error) {
	engine := NewReconcileEngine(d.cfg, d.log)
	return engine.Reconcile(d.pkg, styleID, d.num)
}

// Write assembles the output package with all in-memory state applied.
func (d *PreparedDocument) Write(w io.Writer) error {
	return d.pkg.Write(w, d.styles, d.num)
}

// WriteFile writes the output package to a file path.
func (d *PreparedDocument) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return NewDocumentError("create", path, err)
	}
	defer f.Close()
	return d.Write(f)
}

// RepairFile is the one-shot form: open, reconcile one style, write. The
// output is written even when nothing needed repair, so callers always
// get a complete package.
func RepairFile(inPath, outPath, styleID string) (*ReconcileReport, error) {
	doc, err := PrepareFile(inPath)
	if err != nil {
		return nil, err
	}

	report, err := doc.Reconcile(styleID)
	if err != nil {
		return nil, err
	}

	if err := doc.WriteFile(outPath); err != nil {
		return report, err
	}
	return report, nil
}
