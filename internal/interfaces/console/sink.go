package console

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pmwatch/internal/application/port"
)

type Sink struct {
	out io.Writer
}

func NewSink() port.Sink { return &Sink{out: os.Stdout} }

func NewWriterSink(w io.Writer) port.Sink { return &Sink{out: w} }

func (s *Sink) WriteBlock(block string) error {
	_, err := fmt.Fprintln(s.out, block)
	return err
}

func (s *Sink) WriteDocument(doc any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
