package similarity

// FileSet holds the paths changed by a pull request.
type FileSet map[string]struct{}

// NewFileSet collapses paths into a set. Paths are compared verbatim.
func NewFileSet(paths ...string) FileSet {
	set := make(FileSet, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

// Record is the comparable view of a pull request. It is built once per run
// and must not be modified afterwards.
type Record struct {
	Number int
	Title  string
	Body   string
	Files  FileSet
	URL    string
	Author string
}

// Text is the title and body joined the way the scorer tokenizes them.
func (r Record) Text() string {
	return r.Title + " " + r.Body
}

// Result pairs a candidate with its scores against the current pull request.
type Result struct {
	Score          float64 `json:"score"`
	FileOverlap    float64 `json:"file_overlap"`
	TextSimilarity float64 `json:"text_similarity"`
	Candidate      Record  `json:"-"`
}
