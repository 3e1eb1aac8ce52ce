package classifier

// Prediction is one class score from the image model.
type Prediction struct {
	ClassName   string  `json:"className"`
	Probability float64 `json:"probability"`
}

// ModelFiles is a topology/metadata pair fetched from a model host.
type ModelFiles struct {
	Topology []byte
	Metadata []byte
}

// Metadata is the subset of the model metadata file the client reads.
type Metadata struct {
	Labels []string `json:"labels"`
}
