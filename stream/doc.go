// Package stream decodes trace event streams.
//
// A stream is a sequence of top-level JSON values read one at a time,
// so the input may be arbitrarily long. Two layouts are supported:
//
//   - array mode (the default): each value is an array of event objects,
//     as written by tools that append `[...]` chunks to a trace file.
//   - object mode: each value is an object whose "traceEvents" field holds
//     the array of event objects.
//
// In both modes the events of successive values are flattened into one
// sequence, in document order.
//
// # Example
//
//	dec := stream.NewDecoder(r, stream.WithObjects())
//	for {
//	    ev, err := dec.ReadEvent()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use ev
//	}
package stream
