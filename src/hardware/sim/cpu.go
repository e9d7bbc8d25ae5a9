package sim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/lib/regdef"
)

// Fault is what the simulated CPU raises (as a panic) where the real one would
// take an exception: a system register touched from too low a level, or an
// exception return the architecture treats as illegal.
type Fault struct {
	Level  arm.ExceptionLevel
	Reason string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at %s: %s", f.Level, f.Reason)
}

// Return is one exception return the CPU performed.
type Return struct {
	From arm.ExceptionLevel
	To   arm.ExceptionLevel
	PC   uint64
	SPSR uint64
	// SCR_EL3 or HCR_EL2 as they were at the return, whichever governs it
	Config uint64
}

// CPU is the processor state the descent depends on.  ExceptionReturn and
// Halt never return to their caller: they end the calling goroutine, so code
// under simulation has to be run by a Machine or in a goroutine of its own.
type CPU struct {
	mu      sync.Mutex
	level   arm.ExceptionLevel
	pc      uint64
	sp      uint64
	regs    map[*regdef.RegisterDef]uint64
	returns []Return
	halted  bool
	log     *logrus.Entry
}

func NewCPU(level arm.ExceptionLevel, log *logrus.Logger) *CPU {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CPU{
		level: level,
		regs:  make(map[*regdef.RegisterDef]uint64),
		log:   log.WithField("component", "cpu"),
	}
}

func (c *CPU) fault(format string, params ...interface{}) {
	f := &Fault{Level: c.level, Reason: fmt.Sprintf(format, params...)}
	c.log.WithError(f).Error("cpu fault")
	panic(f)
}

func (c *CPU) checkAccess(r *regdef.RegisterDef) {
	min, ok := arm.MinimumLevel(r)
	if !ok {
		c.fault("%s is not a modelled system register", r.Name)
	}
	if c.level < min {
		c.fault("%s is not accessible below %s", r.Name, min)
	}
}

func (c *CPU) ReadSystem(r *regdef.RegisterDef) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkAccess(r)
	if r == arm.CurrentEL {
		return arm.CurrentEL.Field("EL").Val(uint64(c.level)).Apply(0)
	}
	return c.regs[r]
}

func (c *CPU) WriteSystem(r *regdef.RegisterDef, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkAccess(r)
	if !r.Access.CanWrite() {
		c.fault("%s is read only", r.Name)
	}
	c.log.WithFields(logrus.Fields{
		"register": r.Name,
		"value":    r.Describe(value),
	}).Debug("msr")
	c.regs[r] = value
}

// the SPSR, ELR and governing configuration register of an eret from level
func returnRegisters(level arm.ExceptionLevel) (spsr, elr, config *regdef.RegisterDef, ok bool) {
	switch level {
	case arm.EL3:
		return arm.SPSR_EL3, arm.ELR_EL3, arm.SCR_EL3, true
	case arm.EL2:
		return arm.SPSR_EL2, arm.ELR_EL2, arm.HCR_EL2, true
	}
	return nil, nil, nil, false
}

// ExceptionReturn performs eret: the level and stack selection come from the
// SPSR of the current level, execution resumes at its ELR.  Only AArch64
// non-secure returns to a strictly lower level are legal here.
func (c *CPU) ExceptionReturn() {
	c.mu.Lock()
	spsrReg, elrReg, configReg, ok := returnRegisters(c.level)
	if !ok {
		c.mu.Unlock()
		c.fault("eret from %s is not modelled", c.level)
	}
	spsr, elr, config := c.regs[spsrReg], c.regs[elrReg], c.regs[configReg]
	to, handler := arm.ModeLevel(spsr)
	reason := ""
	switch {
	case to >= c.level:
		reason = fmt.Sprintf("illegal return from %s to %s", c.level, to)
	case arm.SPSR_EL2.Field("M").Get(spsr)&0x2 != 0:
		reason = fmt.Sprintf("reserved mode in SPSR %#x", spsr)
	case c.level == arm.EL3 && arm.SCR_EL3.Field("RW").Get(config) == 0:
		reason = "SCR_EL3.RW says the lower levels are AArch32"
	case c.level == arm.EL3 && to == arm.EL2 && arm.SCR_EL3.Field("NS").Get(config) == 0:
		reason = "return to secure EL2, which does not exist"
	case c.level == arm.EL2 && arm.HCR_EL2.Field("RW").Get(config) == 0:
		reason = "HCR_EL2.RW says EL1 is AArch32"
	}
	if reason != "" {
		c.mu.Unlock()
		c.fault("%s", reason)
	}
	ret := Return{From: c.level, To: to, PC: elr, SPSR: spsr, Config: config}
	c.returns = append(c.returns, ret)
	c.level = to
	c.pc = elr
	if handler && to == arm.EL1 {
		c.sp = c.regs[arm.SP_EL1]
	}
	c.mu.Unlock()
	c.log.WithFields(logrus.Fields{
		"from": ret.From.String(),
		"to":   ret.To.String(),
		"pc":   fmt.Sprintf("%#x", elr),
		"spsr": spsrReg.Describe(spsr),
	}).Info("eret")
	runtime.Goexit()
}

// Halt stops the processor for good.
func (c *CPU) Halt() {
	c.mu.Lock()
	c.halted = true
	c.mu.Unlock()
	c.log.WithField("level", c.level.String()).Info("halt")
	runtime.Goexit()
}

// Level is the current exception level.
func (c *CPU) Level() arm.ExceptionLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// PC is where the last exception return resumed.
func (c *CPU) PC() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pc
}

// SetPC places the CPU at an address, for the Machine's reset.
func (c *CPU) SetPC(pc uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pc = pc
}

// StackPointer is the stack pointer in use after the last return to an h
// mode at EL1.
func (c *CPU) StackPointer() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sp
}

// Register reads a system register regardless of level, for inspection.
func (c *CPU) Register(r *regdef.RegisterDef) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[r]
}

func (c *CPU) Returns() []Return {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Return(nil), c.returns...)
}

func (c *CPU) Halted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halted
}
