package fileio

type IOFactory interface {
	NewWriter() FileWriter
}

// BufferedFactory is the default factory returning plain buffered writers
type BufferedFactory struct{}

func (b *BufferedFactory) NewWriter() FileWriter {
	return new(BufferedWriter)
}

// LZ4Factory returns buffered writers that store LZ4 frames
type LZ4Factory struct{}

func (l *LZ4Factory) NewWriter() FileWriter {
	return &BufferedWriter{compress: true}
}

// NewFactory picks factory by output format
func NewFactory(compress bool) IOFactory {
	if compress {
		return new(LZ4Factory)
	}
	return new(BufferedFactory)
}
