package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeDomain
	ErrCodeOverflow
	ErrCodeConfiguration
	ErrCodeLedger
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrCommon = New(ErrCodeOrdinary, "vesting error")

	// ErrDomain is returned when an argument is outside the valid input range of a function.
	ErrDomain = New(ErrCodeDomain, "domain error")
	// ErrOverflow is returned when a fixed-point result does not fit in 128 bits.
	ErrOverflow = New(ErrCodeOverflow, "overflow")
	// ErrConfiguration is returned when the vesting schedule is missing or a state transition is not allowed.
	ErrConfiguration = New(ErrCodeConfiguration, "configuration error")
	ErrLedger        = New(ErrCodeLedger, "ledger error")

	ErrQuery          = New(ErrCodeQuery, "query failed")
	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")

	ErrScheduleNotSet      = ErrConfiguration.Wrap(NewOrdinary("vesting schedule is not set"))
	ErrScheduleImmutable   = ErrConfiguration.Wrap(NewOrdinary("vesting schedule already started"))
	ErrInvalidThresholds   = ErrConfiguration.Wrap(NewOrdinary("invalid explicit thresholds"))
	ErrBackwardOverride    = ErrConfiguration.Wrap(NewOrdinary("fully vested batches can not move backward"))
	ErrLog2Domain          = ErrDomain.Wrap(NewOrdinary("log2 domain error"))
	ErrBatchDomain         = ErrDomain.Wrap(NewOrdinary("batch out of range"))
	ErrPrecisionDomain     = ErrDomain.Wrap(NewOrdinary("precision out of range"))
	ErrExp2Domain          = ErrDomain.Wrap(NewOrdinary("exp2 domain error"))
	ErrFixedPointOverflow  = ErrOverflow.Wrap(NewOrdinary("SQ64x64 overflow"))
	ErrFixedPointUnderflow = ErrOverflow.Wrap(NewOrdinary("SQ64x64 underflow"))
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xerr, ok := err.(XError); ok {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg

	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}

	return msg
}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

// Unwrap lets errors.Is and errors.As walk the cause chain.
func (xerr *xerror) Unwrap() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

// Contains reports whether `other` appears in the chain of xerr,
// matching on both code and message at each level.
func (xerr *xerror) Contains(other XError) bool {
	if other == nil {
		return false
	}
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		} else {
			return errors.Is(xerr.cause, other)
		}
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}
