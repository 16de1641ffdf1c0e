package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serialises writes and flushes buffered writers after each one so that
// notifications printed from background checks appear immediately.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. Wrapping an existing FlushingWriter returns it unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when it supports flushing.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if bufferedWriter, isBuffered := flushingWriter.writer.(flusher); isBuffered {
		return bytesWritten, bufferedWriter.Flush()
	}
	return bytesWritten, nil
}
