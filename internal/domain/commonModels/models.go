package commonModels

const ChunkKindText = "text"

// DocumentRef identifies a source document. Name is what the user calls it (the upload
// filename); Path is where the bytes currently live and may be a temporary location.
type DocumentRef struct {
	Name string `json:"document_name"`
	Path string `json:"document_path"`
}

// Chunk is an immutable span of document text.
type Chunk struct {
	Id           string `json:"chunk_id"`
	Ordinal      int    `json:"chunk_order"`
	Content      string `json:"content"`
	PositionHint int    `json:"page_num"`
	Kind         string `json:"element_type"`
}

// ExtractedText is what the extraction collaborator hands to the core.
type ExtractedText struct {
	Text      string
	PageCount int
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
