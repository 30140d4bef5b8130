package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"satellite_simulator/internal/model"
)

// MaxDurationSec bounds COLLECT and START_DOWNLINK durations (one day).
const MaxDurationSec = 86400.0

// ErrUnknownCommand is returned by Decode for names outside the command set.
var ErrUnknownCommand = errors.New("unknown command")

// ParamError describes a missing or malformed command parameter.
type ParamError struct {
	Command string
	Param   string
	Reason  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("Invalid %s parameter %s: %s", e.Command, e.Param, e.Reason)
}

// Names returns every command name Decode accepts.
func Names() []string {
	return []string{
		NameNoop, NameCollect, NameAbort, NameClear, NameSetMode,
		NameArrayDeploy, NameArrayStow, NameArrayAngle,
		NameHeaterCtrl, NameHeaterState, NameHeaterSetpt, NameADCSCtrl,
		NameAntDeploy, NameAntStow, NameStartDownlink, NameStopDownlink,
		NameSetAntAngle, NameSetTestTemp,
	}
}

// Decode converts a command name and its raw parameters into a typed Command.
// Names and parameter keys are matched case-insensitively. Only the shape of
// the parameters is checked here; range and state checks belong to the
// dispatcher so that they can be reported with the spacecraft's own wording.
func Decode(name string, params map[string]any) (Command, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	p := newParams(name, params)

	switch name {
	case NameNoop:
		return Noop{}, nil
	case NameAbort:
		return Abort{}, nil
	case NameClear:
		return Clear{}, nil
	case NameStopDownlink:
		return StopDownlink{}, nil

	case NameCollect:
		dur, err := p.duration()
		if err != nil {
			return nil, err
		}
		typ, err := p.str("TYPE")
		if err != nil {
			return nil, err
		}
		return Collect{DurationSec: dur, Type: typ}, nil

	case NameSetMode:
		mode, err := p.str("MODE")
		if err != nil {
			return nil, err
		}
		return SetMode{Mode: model.Mode(mode)}, nil

	case NameArrayDeploy, NameArrayStow:
		num, err := p.int("NUM")
		if err != nil {
			return nil, err
		}
		if name == NameArrayDeploy {
			return ArrayDeploy{Num: num}, nil
		}
		return ArrayStow{Num: num}, nil

	case NameArrayAngle:
		num, err := p.int("NUM")
		if err != nil {
			return nil, err
		}
		ang, err := p.float("ANG")
		if err != nil {
			return nil, err
		}
		return ArrayAngle{Num: num, AngleDeg: ang}, nil

	case NameHeaterCtrl, NameHeaterState:
		num, err := p.int("NUM")
		if err != nil {
			return nil, err
		}
		state, err := p.str("STATE")
		if err != nil {
			return nil, err
		}
		if name == NameHeaterCtrl {
			return HeaterCtrl{Num: num, State: model.Switch(state)}, nil
		}
		return HeaterState{Num: num, State: model.Switch(state)}, nil

	case NameHeaterSetpt:
		num, err := p.int("NUM")
		if err != nil {
			return nil, err
		}
		setpt, err := p.float("SETPT")
		if err != nil {
			return nil, err
		}
		return HeaterSetpoint{Num: num, SetpointC: setpt}, nil

	case NameADCSCtrl:
		state, err := p.str("STATE")
		if err != nil {
			return nil, err
		}
		return ADCSCtrl{State: model.Switch(state)}, nil

	case NameAntDeploy:
		num, err := p.int("ANT_NUM", "NUM")
		if err != nil {
			return nil, err
		}
		typ, _, err := p.optionalStr("TYPE")
		if err != nil {
			return nil, err
		}
		return AntennaDeploy{Num: num, Type: model.AntennaType(typ)}, nil

	case NameAntStow:
		num, err := p.int("ANT_NUM", "NUM")
		if err != nil {
			return nil, err
		}
		return AntennaStow{Num: num}, nil

	case NameStartDownlink:
		rate, err := p.str("DATA_RATE", "RATE")
		if err != nil {
			return nil, err
		}
		dur, err := p.duration()
		if err != nil {
			return nil, err
		}
		return StartDownlink{Rate: model.DataRate(rate), DurationSec: dur}, nil

	case NameSetAntAngle:
		num, err := p.int("ANT_NUM", "NUM")
		if err != nil {
			return nil, err
		}
		az, err := p.float("AZIMUTH")
		if err != nil {
			return nil, err
		}
		el, err := p.float("ELEVATION")
		if err != nil {
			return nil, err
		}
		return SetAntennaAngle{Num: num, AzimuthDeg: az, ElevationDeg: el}, nil

	case NameSetTestTemp:
		temp, err := p.float("NEW_TEMP", "TEMP")
		if err != nil {
			return nil, err
		}
		return SetTestTemp{TempC: temp}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// params is a case-insensitive view of the raw parameter map.
type params struct {
	command string
	values  map[string]any
}

func newParams(command string, raw map[string]any) params {
	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return params{command: command, values: values}
}

// lookup returns the first present key among keys (the first is canonical).
func (p params) lookup(keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := p.values[k]; ok {
			return k, v, true
		}
	}
	return keys[0], nil, false
}

func (p params) fail(key, reason string) error {
	return &ParamError{Command: p.command, Param: key, Reason: reason}
}

func (p params) float(keys ...string) (float64, error) {
	f, err := p.rawFloat(keys...)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		key, _, _ := p.lookup(keys...)
		return 0, p.fail(key, "not a finite number")
	}
	return f, nil
}

// duration reads a DURATION in seconds, bounded in magnitude by MaxDurationSec.
func (p params) duration() (float64, error) {
	d, err := p.float("DURATION")
	if err != nil {
		return 0, err
	}
	if math.Abs(d) > MaxDurationSec {
		return 0, p.fail("DURATION", fmt.Sprintf("exceeds %d seconds", int(MaxDurationSec)))
	}
	return d, nil
}

func (p params) rawFloat(keys ...string) (float64, error) {
	key, v, ok := p.lookup(keys...)
	if !ok {
		return 0, p.fail(key, "missing")
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, p.fail(key, fmt.Sprintf("not a number: %q", n.String()))
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, p.fail(key, fmt.Sprintf("not a number: %q", n))
		}
		return f, nil
	default:
		return 0, p.fail(key, fmt.Sprintf("expected number, got %T", v))
	}
}

func (p params) int(keys ...string) (int, error) {
	f, err := p.float(keys...)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		key, _, _ := p.lookup(keys...)
		return 0, p.fail(key, fmt.Sprintf("expected integer, got %v", f))
	}
	return int(f), nil
}

func (p params) str(keys ...string) (string, error) {
	s, ok, err := p.optionalStr(keys...)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", p.fail(keys[0], "missing")
	}
	return s, nil
}

// optionalStr upper-cases string values so enum comparisons are exact.
func (p params) optionalStr(keys ...string) (string, bool, error) {
	key, v, ok := p.lookup(keys...)
	if !ok {
		return "", false, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", false, p.fail(key, fmt.Sprintf("expected string, got %T", v))
	}
	return strings.ToUpper(strings.TrimSpace(s)), true, nil
}
