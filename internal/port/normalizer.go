package port

type Normalizer interface {
	Normalize(text string) string
}
