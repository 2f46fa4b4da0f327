package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/fontmesh/internal/fontload"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'fontmesh.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.fontmesh.cli":        "Info",
		"trace.fontmesh":            "Info",
		"trace.font.opentype":       "Error",
		"trace.fontmesh.outline":    "Error",
		"trace.fontmesh.tessellate": "Error",
		"trace.fontmesh.mesh":       "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (file path or system font name, default Go Regular)")
	workers := flag.Int("workers", 4, "Number of goroutines compiling glyphs")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)        // will set the correct level later
	pterm.Info.Println("Welcome to the fontmesh CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("mesh > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load and compile font to use
	if err := intp.loadFont(*fontname, *workers); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	name  string
	font  *ot.Font
	mesh  *fontmesh.MeshFont
	repl  *readline.Instance
	glyph ot.GlyphIndex // glyph last inspected
	seen  bool          // a glyph has been inspected
}

func (intp *Intp) String() string {
	if intp == nil || intp.mesh == nil {
		return "()"
	}
	if !intp.seen {
		return fmt.Sprintf("( font=%s )", intp.name)
	}
	return fmt.Sprintf("( font=%s ) -> glyph %d", intp.name, intp.glyph)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	GLYPH
	RUNE
	TABLES
	STATS
	ERRORS
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"glyph":  GLYPH,
	"rune":   RUNE,
	"tables": TABLES,
	"stats":  STATS,
	"errors": ERRORS,
}

var opNames = []string{
	"quit",
	"help",
	"glyph",
	"rune",
	"tables",
	"stats",
	"errors",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

// parseCommand splits a line into steps, each of the form op[:arg[:format]],
// e.g. "glyph:36:tris" or "rune:U+00C4" or "tables:head".
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":")
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Debugf("%s", opNames[code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	GLYPH:  glyphOp,
	RUNE:   runeOp,
	TABLES: tablesOp,
	STATS:  statsOp,
	ERRORS: errorsOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string, workers int) error {
	var sf *fontload.ScalableFont
	if fontname == "" {
		sf = fontload.ParseFont(goregular.TTF)
	} else {
		var err error
		if sf, err = fontload.Load(fontname); err != nil {
			return err
		}
	}
	tracer().Infof("loaded font = %s", sf.Fontname)
	otf, err := ot.Parse(sf.Binary)
	if err != nil {
		tracer().Errorf("cannot decode font %s: %s", fontname, err)
		return err
	}
	mf, err := fontmesh.CompileFont(otf, fontmesh.WithWorkers(workers))
	if err != nil {
		tracer().Errorf("cannot compile font %s: %s", fontname, err)
		return err
	}
	mf.Name = sf.Fontname
	intp.name, intp.font, intp.mesh = sf.Fontname, otf, mf
	if intp.name == "" {
		intp.name = fontname
	}
	pterm.Printf("font tables: %v\n", otf.TableTags())
	pterm.Printf("compiled: %s\n", mf.Stats())
	return nil
}

// ----------------------------------------------------------------------

var ErrNoFont = errors.New("no font loaded")
var ErrNoGlyph = errors.New("no glyph selected")

func (intp *Intp) checkFont() error {
	if intp.mesh == nil {
		return ErrNoFont
	}
	return nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
