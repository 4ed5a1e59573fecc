package port

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// Sentence is one non-blank input line of a corpus file.
type Sentence struct {
	Line int
	Text string
}

type SentenceReader interface {
	ReadSentences(path string) ([]Sentence, error)
}
