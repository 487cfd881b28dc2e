package directory

type ListFilesRequest struct {
	Path *string `json:"path,omitempty"`
}

// DirPath returns the requested directory, "." when omitted.
func (r ListFilesRequest) DirPath() string {
	if r.Path == nil || *r.Path == "" {
		return "."
	}
	return *r.Path
}
