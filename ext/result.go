package ext

//go:generate go tool stringer --linecomment --type ResultKind --output result_string.go

import (
	"strconv"

	"github.com/ardnew/pl2/lang"
)

// ResultKind says how the engine proceeds after a call handler returns.
type ResultKind int

const (
	// KindContinue advances to the next command.
	KindContinue ResultKind = iota // continue
	// KindJump transfers control to a command index.
	KindJump // jump
	// KindTerminate stops the run successfully.
	KindTerminate // terminate
)

// Result is returned by a [CallFunc]. The zero value continues.
type Result struct {
	kind   ResultKind
	target int
}

// Continue advances to the next command.
func Continue() Result { return Result{} }

// Jump transfers control to the command at index.
func Jump(index int) Result { return Result{kind: KindJump, target: index} }

// JumpTo transfers control to cmd.
func JumpTo(cmd *lang.Command) Result { return Jump(cmd.Index) }

// Terminate stops the run successfully.
func Terminate() Result { return Result{kind: KindTerminate} }

// Kind returns the kind of r.
func (r Result) Kind() ResultKind { return r.kind }

// Target returns the jump target. It is meaningful only for [KindJump].
func (r Result) Target() int { return r.target }

func (r Result) String() string {
	if r.kind == KindJump {
		return r.kind.String() + "(" + strconv.Itoa(r.target) + ")"
	}

	return r.kind.String()
}
