package file

// -- Read File --

type ReadFileRequest struct {
	Path string `json:"path"`
}

// -- Write File --

type WriteFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// -- Edit File --

type EditFileRequest struct {
	FilePath     string `json:"file_path"`
	SearchBlock  string `json:"search_block"`
	ReplaceBlock string `json:"replace_block"`
}
