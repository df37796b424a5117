package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Compile bool
	Match   bool
	Verify  bool
	Archive bool
}

var d *debug

func init() {
	d = &debug{}
	d.Compile = boolEnv("MM_DEBUG_COMPILE")
	d.Match = boolEnv("MM_DEBUG_MATCH")
	d.Verify = boolEnv("MM_DEBUG_VERIFY")
	d.Archive = boolEnv("MM_DEBUG_ARCHIVE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Compile reports whether formula-compiler tracing is enabled.
func Compile() bool {
	return d.Compile
}

// Match reports whether syntax-rule match tracing is enabled.
func Match() bool {
	return d.Match
}

// Verify reports whether proof-step verification tracing is enabled.
func Verify() bool {
	return d.Verify
}

// Archive reports whether archive encode/decode tracing is enabled.
func Archive() bool {
	return d.Archive
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
