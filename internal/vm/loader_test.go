package vm

import (
	"errors"
	"testing"
)

type loaderCase struct {
	name         string
	origin       Word
	instructions []Word
	expLoaded    uint16
	expErr       error
}

func TestLoaderLoad(tt *testing.T) {
	tt.Parallel()

	tcs := []loaderCase{{
		name:   "ok",
		origin: 0x3100,
		instructions: []Word{
			Word(NewInstruction(LEA, 0o73)),
			Word(NewInstruction(TRAP, 0x25)),
			Word(NewInstruction(STI, 0xdad)),
		},
		expLoaded: 3,
	}, {
		name:   "overruns address space",
		origin: 0xfffe,
		instructions: []Word{
			Word(NewInstruction(LEA, 0o73)),
			Word(NewInstruction(TRAP, 0x25)),
			Word(NewInstruction(STI, 0xdad)),
		},
		expErr:    ErrObjectLoader,
		expLoaded: 2,
	}, {
		name:         "empty object",
		instructions: []Word{},
		expErr:       ErrObjectLoader,
	}}

	for _, tc := range tcs {
		tc := tc

		tt.Run(tc.name, func(tt *testing.T) {
			t := NewTestHarness(tt)
			machine := t.Make()
			loader := NewLoader(machine)

			obj := ObjectCode{Orig: tc.origin, Code: tc.instructions}
			loaded, err := loader.Load(obj)

			if loaded != tc.expLoaded {
				t.Errorf("loaded count: got: %d, want: %d", loaded, tc.expLoaded)
			}

			switch {
			case tc.expErr == nil && err != nil:
				t.Error("unexpected error:", err)
			case tc.expErr != nil && err == nil:
				t.Error("expected error, got none:", "want:", tc.expErr)
			case tc.expErr != nil && !errors.Is(err, tc.expErr):
				t.Error("wrong error:", "want:", tc.expErr, "got:", err)
			}
		})
	}

	tt.Run("loaded words land in memory", func(tt *testing.T) {
		t := NewTestHarness(tt)
		machine := t.Make()
		loader := NewLoader(machine)

		obj := ObjectCode{Orig: 0x3000, Code: []Word{0x1111, 0x2222, 0x3333}}

		if _, err := loader.Load(obj); err != nil {
			t.Fatal(err)
		}

		for i, want := range obj.Code {
			if got := machine.Mem.Read(obj.Orig + Word(i)); got != want {
				t.Errorf("Mem[%s] want: %s, got: %s", obj.Orig+Word(i), want, got)
			}
		}
	})
}
