package movecli

import (
	"context"
	"log/slog"
)

const (
	// DefaultBinary is the external Move CLI.
	DefaultBinary = "aptos"
	// DefaultModuleName is the named address the Cora contract package
	// expects at compile time.
	DefaultModuleName = "cora_insurance"
)

// NamedAddress builds the compile-time binding for the module name. It is
// recomputed per invocation and never persisted.
func NamedAddress(moduleName, address string) string {
	return moduleName + "=" + address
}

// Compiler drives the external Move toolchain for the contract package.
type Compiler struct {
	runner     Runner
	binary     string
	packageDir string
	moduleName string
	logger     *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithRunner substitutes the process runner.
func WithRunner(r Runner) CompilerOption {
	return func(c *Compiler) {
		c.runner = r
	}
}

// WithBinary sets the CLI binary name or path.
func WithBinary(bin string) CompilerOption {
	return func(c *Compiler) {
		c.binary = bin
	}
}

// WithModuleName sets the named address to bind.
func WithModuleName(name string) CompilerOption {
	return func(c *Compiler) {
		c.moduleName = name
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = l
	}
}

// NewCompiler creates a compiler for the package at packageDir.
func NewCompiler(packageDir string, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		runner:     ExecRunner{},
		binary:     DefaultBinary,
		packageDir: packageDir,
		moduleName: DefaultModuleName,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles the package with the publisher's address bound to the
// module name. Output is returned for pass-through printing, not parsed.
func (c *Compiler) Compile(ctx context.Context, publisherAddress string) (Result, error) {
	return c.run(ctx,
		"move", "compile",
		"--package-dir", c.packageDir,
		"--named-addresses", NamedAddress(c.moduleName, publisherAddress),
	)
}

// Publish compiles and publishes the package with the publisher's key.
func (c *Compiler) Publish(ctx context.Context, publisherAddress, privateKeyHex, nodeURL string) (Result, error) {
	return c.run(ctx,
		"move", "publish",
		"--package-dir", c.packageDir,
		"--named-addresses", NamedAddress(c.moduleName, publisherAddress),
		"--private-key", privateKeyHex,
		"--url", nodeURL,
		"--assume-yes",
	)
}

func (c *Compiler) run(ctx context.Context, args ...string) (Result, error) {
	c.logger.Info("invoking move cli",
		slog.String("binary", c.binary),
		slog.String("subcommand", args[0]+" "+args[1]),
		slog.String("package_dir", c.packageDir))

	result, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return result, err
	}

	if result.ExitCode != 0 {
		return result, &ExitError{
			Command:  c.binary + " " + args[0] + " " + args[1],
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
	}

	return result, nil
}
