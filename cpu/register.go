package cpu

// Register is a 32-bit general purpose register index.
type Register int

const (
	REG_EAX = Register(0) // EAX
	REG_EBX = Register(1) // EBX
	REG_ECX = Register(2) // ECX
	REG_EDX = Register(3) // EDX

	REGISTER_COUNT = 4
)

type registerAlias struct {
	reg  Register
	wide bool
}

// registerMap maps register names to the owning 32-bit register.
var registerMap = map[string]registerAlias{
	"EAX": {REG_EAX, true},
	"EBX": {REG_EBX, true},
	"ECX": {REG_ECX, true},
	"EDX": {REG_EDX, true},
	"AX":  {REG_EAX, false},
	"BX":  {REG_EBX, false},
	"CX":  {REG_ECX, false},
	"DX":  {REG_EDX, false},
}

// LookupRegister returns the 32-bit register owning the register name.
// wide is false for the 16-bit names, which alias the low half.
func LookupRegister(name string) (reg Register, wide bool, ok bool) {
	alias, ok := registerMap[name]
	if !ok {
		return
	}

	reg = alias.reg
	wide = alias.wide
	return
}
