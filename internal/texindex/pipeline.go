package texindex

// Paper is the output of one full pipeline run.
type Paper struct {
	Root  string // path of the resolved root file, relative to the source root
	Doc   *ExpandedDocument
	Spans []ProtectedSpan
	Index *Index
}

// Process runs the full pipeline over an already-loaded source set:
// entry resolution, include expansion, protected-span scan, section
// split, metrics, and assembly. declaredMain, when known from archive
// metadata, breaks root ties.
func Process(files []SourceFile, declaredMain string, cfg Config) (*Paper, error) {
	root, err := FindRoot(files, declaredMain)
	if err != nil {
		return nil, err
	}

	doc, warnings, err := Expand(files, root)
	if err != nil {
		return nil, err
	}

	spans, envWarnings := ScanProtectedSpans(doc)
	warnings = append(warnings, envWarnings...)

	tree := Split(doc, spans, cfg)
	idx, err := Assemble(doc, tree, spans, warnings, cfg)
	if err != nil {
		return nil, err
	}

	return &Paper{Root: root.Path, Doc: doc, Spans: spans, Index: idx}, nil
}

// ProcessDir loads sources from dir and runs Process.
func ProcessDir(dir, declaredMain string, cfg Config) (*Paper, error) {
	files, err := LoadSources(dir)
	if err != nil {
		return nil, err
	}
	return Process(files, declaredMain, cfg)
}
