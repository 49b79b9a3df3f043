package port

type Sink interface {
	// Human readable text, written as is followed by a newline
	WriteBlock(block string) error
	// Machine readable document for automation pipelines
	WriteDocument(doc any) error
}
