package godsync

import "io"

// ProgressReader wraps an io.Reader, invoking onRead with each chunk of
// bytes actually consumed. Used to drive ProgressEvents while chunking a
// source or target stream.
type ProgressReader struct {
	Reader io.Reader
	OnRead func(n int)
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	if n > 0 && pr.OnRead != nil {
		pr.OnRead(n)
	}
	return n, err
}

// ProgressWriter wraps an io.Writer, invoking onWrite with each chunk of
// bytes actually written. Used to drive ProgressEvents while applying a
// patch.
type ProgressWriter struct {
	Writer  io.Writer
	OnWrite func(n int)
}

func (pw *ProgressWriter) Write(p []byte) (n int, err error) {
	n, err = pw.Writer.Write(p)
	if n > 0 && pw.OnWrite != nil {
		pw.OnWrite(n)
	}
	return n, err
}

// CountingWriter wraps an io.Writer and counts bytes written to it,
// independent of any progress callback.
type CountingWriter struct {
	Writer io.Writer
	Count  int64
}

func (cw *CountingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.Writer.Write(p)
	cw.Count += int64(n)
	return n, err
}
