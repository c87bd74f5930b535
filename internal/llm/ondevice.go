package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Markers the on-device runner prints when the OS-level safety layer blocks a
// request instead of answering it.
var guardrailMarkers = []string{
	"guardrailviolation",
	"guardrails triggered",
	"safety guardrail",
	"request was blocked",
}

// OnDevice shells out to a local model runner binary. The runner reads the
// prompt on stdin and writes the completion to stdout; a guardrail block is
// reported as a marker line rather than an exit code.
type OnDevice struct {
	binary string
	args   []string
}

func NewOnDevice(binary string, args ...string) *OnDevice {
	if binary == "" {
		binary = "llmtool"
	}
	return &OnDevice{binary: binary, args: args}
}

func (o *OnDevice) Name() string { return "on-device" }

func (o *OnDevice) Available() bool {
	_, err := exec.LookPath(o.binary)
	return err == nil
}

func (o *OnDevice) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	path, err := exec.LookPath(o.binary)
	if err != nil {
		return "", &UnavailableError{Backend: o.Name(), Detail: o.binary + " not found in PATH"}
	}
	args := append([]string{}, o.args...)
	args = append(args, "--max-tokens", strconv.Itoa(maxTokens))
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	combined := strings.ToLower(stdout.String() + "\n" + stderr.String())
	for _, marker := range guardrailMarkers {
		if strings.Contains(combined, marker) {
			return "", &GuardrailError{Backend: o.Name(), Detail: marker}
		}
	}
	if runErr != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = runErr.Error()
		}
		return "", fmt.Errorf("%s runner failed: %s", o.Name(), detail)
	}
	return stdout.String(), nil
}

var _ Backend = (*OnDevice)(nil)
