package main

import (
	"os"
	"strings"

	"github.com/op/go-logging"
)

func execName() string {
	splitted := strings.Split(os.Args[0], "/")
	return splitted[len(splitted)-1]
}

var log = logging.MustGetLogger(execName())

var RevCount, Revision, CommitDate string

func main() {
	root := newRootCommand(os.Stdout)
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
