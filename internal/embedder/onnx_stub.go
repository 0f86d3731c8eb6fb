//go:build !onnx

package embedder

// newONNX is the non-onnx build fallback. The semantic layer degrades when
// it sees ErrRuntimeUnavailable instead of refusing to start.
func newONNX(cfg Config) (Embedder, error) {
	return nil, ErrRuntimeUnavailable
}
