// Package premotest holds GoMock doubles for the premo interfaces.
//
//go:generate mockgen -source=../state_saver.go -destination=state_saver_mock.go -package=premotest -exclude_interfaces=Encoded
//go:generate mockgen -source=../recorder.go -destination=recorder_mock.go -package=premotest
package premotest
