// Package metrics exports presentation model activity to Prometheus.
//
// The core reports through the premo.Recorder hook and defaults to
// premo.NoopRecorder. Hosts that want metrics pass a PrometheusRecorder in
// premo.RootOptions; every node of the tree inherits it.
//
//	reg := prometheus.NewRegistry()
//	root := premo.NewRoot(desc, factory, saver, premo.RootOptions{
//	    Recorder: metrics.NewPrometheusRecorder(reg),
//	})
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
