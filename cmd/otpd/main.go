// main.go - otpd: one-time pad and entropy tooling on probabilistic bit buffers.
//
// Usage:
//
//	otpd [-config otpd.json] demo
//	otpd [-config otpd.json] encrypt -msg TEXT -out msg.cbor -key msg.key [-prove]
//	otpd [-config otpd.json] decrypt -in msg.cbor -key msg.key
//	otpd [-config otpd.json] entropy -n 8 -op and
//
// Every error from the buffer algebra is a misuse of the abstraction and is fatal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"

	"randbytes/internal/otp"
	"randbytes/internal/randbytes"
	"randbytes/internal/scenario"
)

const version = "0.1.0"

var errUsage = errors.New("usage: otpd [-config FILE] demo|encrypt|decrypt|entropy [flags]")

// App bundles what every command needs.
type App struct {
	Config  *Config
	Log     *Logger
	Metrics *MetricsCollector
	Source  randbytes.Source
	Out     io.Writer
}

func main() {
	fs := flag.NewFlagSet("otpd", flag.ExitOnError)
	configPath := fs.String("config", "otpd.json", "path to the JSON configuration file")
	fs.Parse(os.Args[1:])

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	auditPath := ""
	if config.EnableAudit {
		auditPath = config.AuditLogPath
	}
	logger, err := NewLogger(os.Stderr, config.LogLevel, config.LogFile, auditPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	app, err := NewApp(config, logger, os.Stdout)
	if err != nil {
		logger.Fatal("setup failed: %v", err)
	}
	logger.Debug("otpd %s starting", version)

	if err := app.Run(fs.Args()); err != nil {
		logger.Error("metrics: %+v", app.Metrics.GetMetricsSummary())
		logger.Fatal("%v", err)
	}
}

// NewApp wires the configuration into a runnable application.
func NewApp(config *Config, logger *Logger, out io.Writer) (*App, error) {
	src, err := config.Source()
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  config,
		Log:     logger,
		Metrics: NewMetricsCollector(),
		Source:  src,
		Out:     out,
	}, nil
}

// Run dispatches a command line (without the program name and global flags).
// A failed command is counted under its name.
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		a.Metrics.RecordError("usage")
		return errUsage
	}
	err := a.dispatch(args)
	if err != nil {
		a.Metrics.RecordError(args[0])
	}
	return err
}

func (a *App) dispatch(args []string) error {
	switch args[0] {
	case "demo":
		return a.runDemo(context.Background())
	case "encrypt":
		return a.runEncrypt(args[1:])
	case "decrypt":
		return a.runDecrypt(args[1:])
	case "entropy":
		return a.runEntropy(args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

type demoResult struct {
	name   string
	report *scenario.Report
	err    error
}

// runDemo runs every scenario, up to MaxConcurrency at a time. Each scenario
// owns its buffers; only the randomness source is shared.
func (a *App) runDemo(ctx context.Context) error {
	scenarios := scenario.All()
	for _, msg := range a.Config.Messages {
		scenarios = append(scenarios, scenario.Scenario{Name: "otp:" + msg, Run: scenario.OTP(msg)})
	}

	results := make([]demoResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.MaxConcurrency)
	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = demoResult{name: s.Name, err: err}
				return nil
			}
			start := time.Now()
			rep, err := s.Run(a.Source)
			results[i] = demoResult{name: s.Name, report: rep, err: err}
			var h float64
			if rep != nil {
				h = rep.MinEntropy
			}
			a.Metrics.RecordScenario(s.Name, h, err)
			a.Log.Zerolog().Debug().Str("scenario", s.Name).Dur("took", time.Since(start)).Err(err).Msg("scenario finished")
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(a.Out, "%s %-20s %v\n", fail("FAIL"), r.name, r.err)
			continue
		}
		fmt.Fprintf(a.Out, "%s %-20s %s, min-entropy %.4f bits\n", pass("PASS"), r.name, r.report.Description, r.report.MinEntropy)
		if r.report.Ciphertext != nil {
			fmt.Fprintf(a.Out, "     Encrypted message: %x\n", r.report.Ciphertext)
			fmt.Fprintf(a.Out, "     Bytes: %d\n", len(r.report.Ciphertext))
			fmt.Fprintf(a.Out, "     Decrypted message: %s\n", r.report.Plaintext)
		}
	}
	a.Log.Debug("metrics: %+v", a.Metrics.GetMetricsSummary())
	return waitErr
}

func (a *App) runEncrypt(args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	msg := fs.String("msg", "", "plaintext message")
	out := fs.String("out", "message.cbor", "envelope output path")
	keyPath := fs.String("key", "message.key", "key output path")
	prove := fs.Bool("prove", false, "attach a Groth16 proof of correct encryption")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *msg == "" {
		return errors.New("encrypt: -msg is required")
	}

	env, secret, err := otp.Seal([]byte(*msg), a.Source)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	a.Metrics.RecordEncryption(len(secret.Key))

	if *prove {
		if err := a.attachProof(env, []byte(*msg), secret); err != nil {
			return err
		}
	}
	if err := secret.SaveToFile(*keyPath); err != nil {
		return fmt.Errorf("encrypt: failed to write key: %w", err)
	}
	if err := env.SaveToFile(*out); err != nil {
		return fmt.Errorf("encrypt: failed to write envelope: %w", err)
	}
	a.Log.Audit("encrypt", map[string]interface{}{"bytes": len(secret.Key), "envelope": *out, "proof": len(env.Proof) > 0})
	fmt.Fprintf(a.Out, "Encrypted message: %x\n", env.Ciphertext)
	fmt.Fprintf(a.Out, "Bytes: %d\n", len(env.Ciphertext))
	return nil
}

func (a *App) attachProof(env *otp.Envelope, msg []byte, secret *otp.Secret) error {
	start := time.Now()
	ccs, err := otp.CompileCircuit(len(msg))
	if err != nil {
		return err
	}
	a.Metrics.RecordCircuitCompile(time.Since(start))

	pkPath, vkPath := otp.KeyPaths(a.Config.KeyDir, len(msg))
	pk, _, err := otp.SetupOrLoadKeys(ccs, pkPath, vkPath)
	if err != nil {
		return fmt.Errorf("key setup failed: %w", err)
	}

	start = time.Now()
	if _, err := otp.Prove(ccs, pk, env, msg, secret); err != nil {
		return err
	}
	a.Metrics.RecordProofGeneration(time.Since(start))
	a.Log.Info("proof generated in %s (%d constraints)", time.Since(start), ccs.GetNbConstraints())
	return nil
}

func (a *App) runDecrypt(args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	in := fs.String("in", "message.cbor", "envelope path")
	keyPath := fs.String("key", "message.key", "key path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := otp.LoadEnvelopeFromFile(*in)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	secret, err := otp.LoadSecretFromFile(*keyPath)
	if err != nil {
		return fmt.Errorf("decrypt: failed to read key: %w", err)
	}

	if len(env.Proof) > 0 {
		_, vkPath := otp.KeyPaths(a.Config.KeyDir, len(env.Ciphertext))
		vk, err := otp.LoadVerifyingKey(vkPath)
		if err != nil {
			return fmt.Errorf("decrypt: failed to load verifying key: %w", err)
		}
		if err := otp.Verify(vk, env); err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		a.Log.Info("proof verified")
	}

	plain, err := otp.Open(env, secret)
	if err != nil {
		a.Log.Warn("decrypt rejected for %s: %v", *in, err)
		return fmt.Errorf("decrypt: %w", err)
	}
	a.Log.Audit("decrypt", map[string]interface{}{"bytes": len(plain), "envelope": *in})
	fmt.Fprintf(a.Out, "Decrypted message: %s\n", plain)
	return nil
}

func (a *App) runEntropy(args []string) error {
	fs := flag.NewFlagSet("entropy", flag.ContinueOnError)
	n := fs.Int("n", 8, "buffer length in bytes")
	op := fs.String("op", "and", "and|or|xor|not|self-and|self-or|self-xor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rows, err := entropyRows(a.Source, *n, *op)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(a.Out)
	table.Header("Buffer", "Bits", "Shannon", "Min-entropy")
	for _, r := range rows {
		table.Append([]string{r.name, fmt.Sprint(r.bits), fmt.Sprintf("%.4f", r.shannon), fmt.Sprintf("%.4f", r.min)})
	}
	table.Render()
	return nil
}

type entropyRow struct {
	name         string
	bits         int
	shannon, min float64
}

func measure(name string, b *randbytes.Buffer) (entropyRow, error) {
	bits, err := b.BitLen()
	if err != nil {
		return entropyRow{}, err
	}
	s, err := b.Entropy(randbytes.Shannon)
	if err != nil {
		return entropyRow{}, err
	}
	m, err := b.Entropy(randbytes.MinEntropy)
	if err != nil {
		return entropyRow{}, err
	}
	return entropyRow{name: name, bits: bits, shannon: s, min: m}, nil
}

// entropyRows measures fresh operands, applies op and measures the result.
func entropyRows(src randbytes.Source, n int, op string) ([]entropyRow, error) {
	x, err := randbytes.GenerateFrom(src, n)
	if err != nil {
		return nil, err
	}
	rx, err := measure("x", x)
	if err != nil {
		return nil, err
	}
	rows := []entropyRow{rx}

	var result *randbytes.Buffer
	switch op {
	case "not":
		result, err = x.Not()
	case "self-and":
		result, err = x.SelfAnd()
	case "self-or":
		result, err = x.SelfOr()
	case "self-xor":
		result, err = x.SelfXor()
	case "and", "or", "xor":
		y, err := randbytes.GenerateFrom(src, n)
		if err != nil {
			return nil, err
		}
		ry, err := measure("y", y)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ry)
		switch op {
		case "and":
			result, err = x.And(y)
		case "or":
			result, err = x.Or(y)
		default:
			result, err = x.Xor(y)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("entropy: unknown op %q", op)
	}
	if err != nil {
		return nil, err
	}
	rr, err := measure(op, result)
	if err != nil {
		return nil, err
	}
	return append(rows, rr), nil
}
