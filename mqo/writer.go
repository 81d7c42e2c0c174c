package mqo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func writeObject(w *bufio.Writer, obj *Object) {
	fmt.Fprintf(w, "Object \"%v\" {\n", obj.Name)
	if obj.UID > 0 {
		fmt.Fprintf(w, "\tuid %v\n", obj.UID)
	}
	fmt.Fprintf(w, "\tdepth %d\n", obj.Depth)
	fmt.Fprintf(w, "\tvisible %d\n", boolToInt(obj.Visible)*15)
	fmt.Fprintf(w, "\tlocking %v\n", boolToInt(obj.Locked))

	fmt.Fprintf(w, "\tvertex %v {\n", len(obj.Vertexes))
	for _, v := range obj.Vertexes {
		fmt.Fprintf(w, "\t\t%v %v %v\n", v.X, v.Y, v.Z)
	}
	w.WriteString("\t}\n")

	fmt.Fprintf(w, "\tface %v {\n", len(obj.Faces))
	for _, f := range obj.Faces {
		fmt.Fprintf(w, "\t\t%v V(%v) M(%v)", len(f.Verts), strings.Trim(fmt.Sprint(f.Verts), "[]"), f.Material)
		if f.UID > 0 {
			fmt.Fprintf(w, " UID(%v)", f.UID)
		}
		if len(f.UVs) > 0 {
			w.WriteString(" UV(")
			for i, uv := range f.UVs {
				if i != 0 {
					w.WriteString(" ")
				}
				fmt.Fprintf(w, "%v %v", uv.X, uv.Y)
			}
			w.WriteString(")")
		}
		w.WriteString("\n")
	}
	w.WriteString("\t}\n")
	w.WriteString("}\n")
}

// WriteMQO writes doc with a single default material, since faces reference M(0).
func WriteMQO(doc *Document, ww io.Writer) error {
	w := bufio.NewWriter(ww)
	w.WriteString("Metasequoia Document\n")
	w.WriteString("Format Text Ver 1.1\n")
	w.WriteString("CodePage utf8\n")
	w.WriteString("\n")

	w.WriteString("Material 1 {\n")
	w.WriteString("\t\"default\" col(1.000 1.000 1.000 1.000) dif(0.800) amb(0.600) emi(0.000) spc(0.000) power(5.00)\n")
	w.WriteString("}\n")

	for _, obj := range doc.Objects {
		writeObject(w, obj)
	}

	w.WriteString("Eof\n")
	return w.Flush()
}

func Save(doc *Document, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := WriteMQO(doc, w); err != nil {
		return err
	}
	return w.Close()
}
