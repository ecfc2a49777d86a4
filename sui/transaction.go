package sui

// ObjectRef identifies one version of an owned object.
type ObjectRef struct {
	ObjectID Address
	Version  uint64
	Digest   []byte
}

func (r ObjectRef) encode(w *bcsWriter) {
	w.address(r.ObjectID)
	w.u64(r.Version)
	w.bytes(r.Digest)
}

// ObjectArg is either an owned object at a fixed version or a shared
// object the validators sequence.
type ObjectArg struct {
	Owned                *ObjectRef
	SharedID             Address
	InitialSharedVersion uint64
	Mutable              bool
}

func (o ObjectArg) encode(w *bcsWriter) {
	if o.Owned != nil {
		w.uleb128(0) // ImmOrOwnedObject
		o.Owned.encode(w)
		return
	}
	w.uleb128(1) // SharedObject
	w.address(o.SharedID)
	w.u64(o.InitialSharedVersion)
	w.bool(o.Mutable)
}

// CallArg is a programmable transaction input.
type CallArg struct {
	Pure   []byte
	Object *ObjectArg
}

func (a CallArg) encode(w *bcsWriter) {
	if a.Object != nil {
		w.uleb128(1)
		a.Object.encode(w)
		return
	}
	w.uleb128(0)
	w.bytes(a.Pure)
}

// MoveCall is a single ProgrammableMoveCall whose arguments are all
// transaction inputs, referenced by index.
type MoveCall struct {
	Package  Address
	Module   string
	Function string
	Args     []uint16
}

func (m MoveCall) encode(w *bcsWriter) {
	w.uleb128(0) // Command::MoveCall
	w.address(m.Package)
	w.str(m.Module)
	w.str(m.Function)
	w.uleb128(0) // no type arguments
	w.uleb128(uint64(len(m.Args)))
	for _, idx := range m.Args {
		w.uleb128(1) // Argument::Input
		w.u16(idx)
	}
}

// TransactionData is TransactionData::V1 holding one programmable
// transaction with a single Move call and no expiration.
type TransactionData struct {
	Inputs     []CallArg
	Call       MoveCall
	Sender     Address
	GasPayment []ObjectRef
	GasOwner   Address
	GasPrice   uint64
	GasBudget  uint64
}

// Marshal returns the BCS encoding that is signed and submitted.
func (t *TransactionData) Marshal() []byte {
	var w bcsWriter
	w.uleb128(0) // TransactionData::V1
	w.uleb128(0) // TransactionKind::ProgrammableTransaction
	w.uleb128(uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		in.encode(&w)
	}
	w.uleb128(1)
	t.Call.encode(&w)
	w.address(t.Sender)
	w.uleb128(uint64(len(t.GasPayment)))
	for _, ref := range t.GasPayment {
		ref.encode(&w)
	}
	w.address(t.GasOwner)
	w.u64(t.GasPrice)
	w.u64(t.GasBudget)
	w.uleb128(0) // TransactionExpiration::None
	return w.Bytes()
}

// newCheckInTransaction lays out inputs as venue, pure arguments, clock.
func newCheckInTransaction(call *CheckInCall, venue ObjectArg) *TransactionData {
	inputs := []CallArg{{Object: &venue}}
	for _, p := range call.pureArgs() {
		inputs = append(inputs, CallArg{Pure: p})
	}
	inputs = append(inputs, CallArg{Object: &ObjectArg{
		SharedID:             call.Clock,
		InitialSharedVersion: 1,
		Mutable:              false,
	}})

	args := make([]uint16, len(inputs))
	for i := range inputs {
		args[i] = uint16(i)
	}
	return &TransactionData{
		Inputs: inputs,
		Call: MoveCall{
			Package:  call.Package,
			Module:   call.Module,
			Function: call.Function,
			Args:     args,
		},
	}
}
