package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jedisct1/go-minisign"

	"github.com/firefly-engineering/stampwall/internal/logging"
	"github.com/firefly-engineering/stampwall/internal/system"
)

// CommandVerifier runs an external minisign binary.
type CommandVerifier struct {
	exec    system.CommandExecutor
	program string
	args    []string
}

// NewCommandVerifier creates a verifier running command, the minisign
// program followed by any extra arguments.
func NewCommandVerifier(exec system.CommandExecutor, command []string) (*CommandVerifier, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("verifier command is required")
	}
	return &CommandVerifier{
		exec:    exec,
		program: command[0],
		args:    command[1:],
	}, nil
}

// Program returns the verifier executable.
func (v *CommandVerifier) Program() string {
	return v.program
}

// Available reports whether the verifier executable can be found.
func (v *CommandVerifier) Available() error {
	_, err := v.exec.LookPath(v.program)
	return err
}

// Verify runs minisign -V -m <resource> -x <signature> -P <key>.
func (v *CommandVerifier) Verify(ctx context.Context, resourcePath, signaturePath, key string) (int, error) {
	args := append([]string{}, v.args...)
	args = append(args, "-V", "-m", resourcePath, "-x", signaturePath, "-P", key)

	output, err := v.exec.Execute(ctx, v.program, args...)
	if err == nil {
		return 0, nil
	}

	var coder system.ExitCoder
	if errors.As(err, &coder) {
		logging.Debug("verifier rejected signature",
			"code", coder.ExitCode(),
			"output", string(output))
		return coder.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to run %s: %w", v.program, err)
}

// BuiltinVerifier verifies signatures without an external program.
type BuiltinVerifier struct {
	fs system.FileSystem
}

// NewBuiltinVerifier creates a BuiltinVerifier reading files through fs.
func NewBuiltinVerifier(fs system.FileSystem) *BuiltinVerifier {
	return &BuiltinVerifier{fs: fs}
}

// Verify mirrors minisign's exit status: 0 when valid, 1 otherwise.
func (v *BuiltinVerifier) Verify(ctx context.Context, resourcePath, signaturePath, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	resource, err := v.fs.ReadFile(resourcePath)
	if err != nil {
		return -1, fmt.Errorf("failed to read resource: %w", err)
	}
	signature, err := v.fs.ReadFile(signaturePath)
	if err != nil {
		return -1, fmt.Errorf("failed to read signature: %w", err)
	}

	if err := verifyMinisig(resource, signature, key); err != nil {
		logging.Debug("builtin verifier rejected signature", "error", err)
		return 1, nil
	}
	return 0, nil
}

// verifyMinisig checks a .minisig document against key, accepting both
// legacy and prehashed signatures.
func verifyMinisig(resource, signature []byte, key string) error {
	pub, err := minisign.NewPublicKey(key)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}

	// Signatures served with CRLF line endings still verify.
	text := strings.ReplaceAll(string(signature), "\r\n", "\n")
	sig, err := minisign.DecodeSignature(text)
	if err != nil {
		return fmt.Errorf("invalid signature file: %w", err)
	}

	ok, err := pub.Verify(resource, sig)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("signature verification failed")
	}
	return nil
}
