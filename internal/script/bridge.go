package script

import (
	lua "github.com/yuin/gopher-lua"

	"tesim/pkg/genome"
)

var genomeMethods = map[string]lua.LGFunction{
	"insert":  genomeInsert,
	"copy":    genomeCopy,
	"disable": genomeDisable,
	"active":  genomeActive,
	"span":    genomeSpan,
	"len":     genomeLen,
	"str":     genomeStr,
}

func (e *Engine) registerGenome() {
	L := e.L
	mt := L.NewTypeMetatable(genomeTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), genomeMethods))
	L.SetField(mt, "__tostring", L.NewFunction(genomeStr))
	L.SetField(mt, "__len", L.NewFunction(genomeLen))

	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"new":   genomeNew,
		"kinds": genomeKinds,
	})
	L.SetGlobal("genome", mod)
}

// genome.new([kind], n)
func genomeNew(L *lua.LState) int {
	kindName, n := string(genome.KindContiguous), 0
	if L.GetTop() >= 2 {
		kindName = L.CheckString(1)
		n = L.CheckInt(2)
	} else {
		n = L.CheckInt(1)
	}
	kind, err := genome.ParseKind(kindName)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	g, err := genome.New(kind, n)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	ud := L.NewUserData()
	ud.Value = g
	L.SetMetatable(ud, L.GetTypeMetatable(genomeTypeName))
	L.Push(ud)
	return 1
}

func genomeKinds(L *lua.LState) int {
	t := L.NewTable()
	for _, k := range genome.Kinds() {
		t.Append(lua.LString(k))
	}
	L.Push(t)
	return 1
}

func checkGenome(L *lua.LState) genome.Genome {
	ud := L.CheckUserData(1)
	if g, ok := ud.Value.(genome.Genome); ok {
		return g
	}
	L.ArgError(1, "genome expected")
	return nil
}

func genomeInsert(L *lua.LState) int {
	g := checkGenome(L)
	id, err := g.InsertTE(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

func genomeCopy(L *lua.LState) int {
	g := checkGenome(L)
	id, ok := g.CopyTE(L.CheckInt(2), L.CheckInt(3))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}

func genomeDisable(L *lua.LState) int {
	checkGenome(L).DisableTE(L.CheckInt(2))
	return 0
}

func genomeActive(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range checkGenome(L).ActiveTEs() {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

// span returns start and length, or nil for an inactive TE.
func genomeSpan(L *lua.LState) int {
	te, ok := checkGenome(L).Span(L.CheckInt(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(te.Start))
	L.Push(lua.LNumber(te.Length))
	return 2
}

func genomeLen(L *lua.LState) int {
	L.Push(lua.LNumber(checkGenome(L).Len()))
	return 1
}

func genomeStr(L *lua.LState) int {
	L.Push(lua.LString(checkGenome(L).String()))
	return 1
}
