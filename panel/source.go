package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

// Source is the closed set of value sources a panel can sample
type Source interface {
	sourceKind() string
}

// Command runs Line through sh -c and parses the first field of stdout
type Command struct {
	Line string
}

// RandomUniform yields values drawn uniformly from [0, 100)
type RandomUniform struct{}

// Custom calls Fn for every acquisition
// Release, when set, frees whatever Fn holds once the panel is retired
type Custom struct {
	Fn      func(ctx context.Context) (float64, error)
	Release func() error
}

// Close runs Release
func (c Custom) Close() error {
	if c.Release == nil {
		return nil
	}
	return c.Release()
}

func (Command) sourceKind() string       { return "command" }
func (RandomUniform) sourceKind() string { return "random" }
func (Custom) sourceKind() string        { return "custom" }
func (*Serial) sourceKind() string       { return "serial" }

// SourceKind names the variant for logs
func SourceKind(s Source) string {
	if s == nil {
		return "none"
	}
	return s.sourceKind()
}

// Close releases resources held by the panel's source, such as an open serial port
// A closed Serial reopens its port on the next read
func (p *Panel) Close() error {
	if c, ok := p.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Provider yields one value per call; it never fails
type Provider func(ctx context.Context) float64

// commandWaitDelay bounds how long a killed command may hold its output pipe
const commandWaitDelay = 200 * time.Millisecond

// ValueProvider resolves the panel's source into a Provider
// Acquisition failures are logged at debug level and yield 0.0
func (p *Panel) ValueProvider(logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("panel", p.title, "source", SourceKind(p.source))

	switch src := p.source.(type) {
	case Command:
		return func(ctx context.Context) float64 {
			v, err := RunCommand(ctx, src.Line)
			if err != nil {
				logger.Debug("command failed", "command", src.Line, "error", err)
				return 0
			}
			return v
		}
	case Custom:
		return func(ctx context.Context) float64 {
			if src.Fn == nil {
				return 0
			}
			v, err := src.Fn(ctx)
			if err != nil {
				logger.Debug("custom source failed", "error", err)
				return 0
			}
			return v
		}
	case *Serial:
		return func(ctx context.Context) float64 {
			v, err := src.Read(ctx)
			if err != nil {
				logger.Debug("serial read failed", "port", src.Port, "error", err)
				return 0
			}
			return v
		}
	default:
		return func(context.Context) float64 {
			return rand.Float64() * 100
		}
	}
}

// RunCommand executes line via sh -c and parses stdout as a float
// Cancelling ctx kills the command and its children
func RunCommand(ctx context.Context, line string) (float64, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	cmd.WaitDelay = commandWaitDelay
	configureCommand(cmd)

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, err
	}
	return ParseNumber(out)
}

// ErrNoNumber is returned when output carries no leading number
var ErrNoNumber = errors.New("no number in output")

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading number of the first whitespace-separated field
// "42.5%" parses as 42.5
func ParseNumber(out []byte) (float64, error) {
	fields := bytes.Fields(out)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrNoNumber)
	}
	m := leadingNumber.Find(fields[0])
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoNumber, fields[0])
	}
	return strconv.ParseFloat(string(m), 64)
}
