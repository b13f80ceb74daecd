package earley

import "bytes"

// dumpBucket traces the contents of one state-grid bucket. It is only
// invoked when Options.ShowDebuggingOutput is set; it emits tracing and
// never affects parse results — debug tracing is an orthogonal side
// channel.
func dumpBucket(bucket *stateSet, i int) {
	var b bytes.Buffer
	b.WriteString("{")
	for idx := 0; idx < bucket.Len(); idx++ {
		if idx > 0 {
			b.WriteString(", ")
		}
		b.WriteString(bucket.At(idx).String())
	}
	b.WriteString("}")
	tracer().Debugf("earley: --- S%d %s", i, b.String())
}
