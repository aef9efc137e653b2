package shape_test

import (
	"fmt"

	"github.com/matzehuels/shapereach/pkg/shape"
)

func ExampleParse() {
	s, err := shape.Parse("CuCu----:--Cu----", 5)
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Width(), s.Height())
	fmt.Printf("%#x\n", s.Index())
	// Output:
	// 4 2
	// 0xc0f
}

func ExampleShape_SeparableAxis() {
	for _, code := range []string{"CuCu----", "Cu------:CuCuCuCu"} {
		fmt.Println(code, shape.MustParse(code, 5).SeparableAxis())
	}
	// Output:
	// CuCu---- 0
	// Cu------:CuCuCuCu -1
}

func ExampleShape_Stack() {
	base := shape.MustParse("CuCu----", 5)
	fmt.Println(base.Stack(shape.MustParse("----Cu--", 5)))
	fmt.Println(base.Stack(shape.MustParse("--Cu----", 5)))
	// Output:
	// CuCuCu--
	// CuCu----:--Cu----
}

func ExampleShape_CreatableNoPinToStack() {
	s := shape.MustParse("Cu------:CuCuCuCu", 5)
	stack := s.CreatableNoPinToStack()
	base := s.BreakItems(stack).TrimTop()
	fmt.Println("base:", base)
	for _, layer := range s.ItemsByLayer(stack) {
		base = base.StackBase(layer)
		fmt.Println("stack:", layer, "->", base)
	}
	// Output:
	// base: Cu------
	// stack: CuCuCuCu -> Cu------:CuCuCuCu
}
