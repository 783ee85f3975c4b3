package writer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/filters"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/raw"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

type objectBuilder struct {
	ctx     Context
	doc     *semantic.Document
	cfg     Config
	objects map[raw.ObjectRef]raw.Object
	objNum  int

	fontRefs map[string]raw.ObjectRef
	pipeline *filters.Pipeline
}

func newObjectBuilder(ctx Context, doc *semantic.Document, cfg Config, startObjNum int) *objectBuilder {
	return &objectBuilder{
		ctx:      ctx,
		doc:      doc,
		cfg:      cfg,
		objects:  make(map[raw.ObjectRef]raw.Object),
		objNum:   startObjNum,
		fontRefs: make(map[string]raw.ObjectRef),
		pipeline: streamPipeline(cfg),
	}
}

func streamPipeline(cfg Config) *filters.Pipeline {
	switch pickContentFilter(cfg) {
	case FilterFlate:
		return filters.NewPipeline([]filters.Encoder{filters.NewFlateEncoder(cfg.Compression)}, filters.Limits{})
	case FilterASCIIHex:
		return filters.NewPipeline([]filters.Encoder{filters.NewASCIIHexEncoder()}, filters.Limits{})
	}
	return filters.NewPipeline(nil, filters.Limits{})
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.objNum, Gen: 0}
	b.objNum++
	return ref
}

// Build lays out catalog, page tree, info, fonts, images and content
// streams. Resources are visited in name order so object numbering is
// stable for a given document.
func (b *objectBuilder) Build() (map[raw.ObjectRef]raw.Object, raw.ObjectRef, *raw.ObjectRef, error) {
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()

	var infoRef *raw.ObjectRef
	if info := infoDict(b.doc.Info); info != nil {
		ref := b.nextRef()
		infoRef = &ref
		b.objects[ref] = info
	}

	kids := raw.NewArray()
	for _, p := range b.doc.Pages {
		if canceled(b.ctx) {
			return nil, raw.ObjectRef{}, nil, ErrCanceled
		}
		pageRef, err := b.addPage(p, pagesRef)
		if err != nil {
			return nil, raw.ObjectRef{}, nil, fmt.Errorf("page %d: %w", p.Index, err)
		}
		kids.Append(raw.Ref(pageRef))
	}

	pagesDict := raw.Dict()
	pagesDict.Set("Type", raw.Name("Pages"))
	pagesDict.Set("Count", raw.Int(int64(kids.Len())))
	pagesDict.Set("Kids", kids)
	b.objects[pagesRef] = pagesDict

	catalog := raw.Dict()
	catalog.Set("Type", raw.Name("Catalog"))
	catalog.Set("Pages", raw.Ref(pagesRef))
	b.objects[catalogRef] = catalog

	return b.objects, catalogRef, infoRef, nil
}

func (b *objectBuilder) addPage(p *semantic.Page, parent raw.ObjectRef) (raw.ObjectRef, error) {
	var content []byte
	for _, cs := range p.Contents {
		content = append(content, serializeContentStream(cs)...)
	}
	contentRef := b.nextRef()
	stream, err := b.encodeStream(raw.Dict(), content)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	b.objects[contentRef] = stream

	ref := b.nextRef()
	pageDict := raw.Dict()
	pageDict.Set("Type", raw.Name("Page"))
	pageDict.Set("Parent", raw.Ref(parent))
	pageDict.Set("MediaBox", rectArray(p.MediaBox))

	resDict := raw.Dict()
	procSet := raw.NewArray(raw.Name("PDF"), raw.Name("Text"))
	fontRes := raw.Dict()
	if p.Resources != nil {
		for _, name := range sortedKeys(p.Resources.Fonts) {
			fRef := b.ensureFont(p.Resources.Fonts[name])
			fontRes.Set(name, raw.Ref(fRef))
		}
	}
	if fontRes.Len() == 0 {
		fontRes.Set("F1", raw.Ref(b.ensureFont(nil)))
	}
	resDict.Set("Font", fontRes)

	if p.Resources != nil && len(p.Resources.XObjects) > 0 {
		xDict := raw.Dict()
		gray, color := false, false
		for _, name := range sortedKeys(p.Resources.XObjects) {
			xo := p.Resources.XObjects[name]
			xRef, err := b.ensureXObject(&xo)
			if err != nil {
				return raw.ObjectRef{}, fmt.Errorf("xobject %s: %w", name, err)
			}
			xDict.Set(name, raw.Ref(xRef))
			if xo.ColorSpace != nil && xo.ColorSpace.ColorSpaceName() == "DeviceGray" {
				gray = true
			} else {
				color = true
			}
		}
		resDict.Set("XObject", xDict)
		if gray {
			procSet.Append(raw.Name("ImageB"))
		}
		if color {
			procSet.Append(raw.Name("ImageC"))
		}
	}
	resDict.Set("ProcSet", procSet)
	pageDict.Set("Resources", resDict)
	pageDict.Set("Contents", raw.Ref(contentRef))
	b.objects[ref] = pageDict
	return ref, nil
}

func (b *objectBuilder) encodeStream(dict *raw.DictObj, data []byte) (*raw.StreamObj, error) {
	ctx, ok := b.ctx.(context.Context)
	if !ok {
		ctx = context.Background()
	}
	encoded, err := b.pipeline.Encode(ctx, data)
	if err != nil {
		return nil, err
	}
	switch names := b.pipeline.Names(); len(names) {
	case 0:
	case 1:
		dict.Set("Filter", raw.Name(names[0]))
	default:
		arr := raw.NewArray()
		for _, n := range names {
			arr.Append(raw.Name(n))
		}
		dict.Set("Filter", arr)
	}
	dict.Set("Length", raw.Int(int64(len(encoded))))
	return raw.NewStream(dict, encoded), nil
}

func (b *objectBuilder) ensureFont(font *semantic.Font) raw.ObjectRef {
	base := "Helvetica"
	encoding := "WinAnsiEncoding"
	subtype := "Type1"
	if font != nil {
		if font.BaseFont != "" {
			base = font.BaseFont
		}
		if font.Encoding != "" {
			encoding = font.Encoding
		}
		if font.Subtype != "" {
			subtype = font.Subtype
		}
	}
	key := strings.Join([]string{subtype, base, encoding}, "|")
	if ref, ok := b.fontRefs[key]; ok {
		return ref
	}
	ref := b.nextRef()
	fontDict := raw.Dict()
	fontDict.Set("Type", raw.Name("Font"))
	fontDict.Set("Subtype", raw.Name(subtype))
	fontDict.Set("BaseFont", raw.Name(base))
	fontDict.Set("Encoding", raw.Name(encoding))
	if font != nil && len(font.Widths) > 0 {
		first, last, widthsArr := encodeWidths(font.Widths)
		fontDict.Set("FirstChar", raw.Int(int64(first)))
		fontDict.Set("LastChar", raw.Int(int64(last)))
		fontDict.Set("Widths", widthsArr)
	}
	b.objects[ref] = fontDict
	b.fontRefs[key] = ref
	return ref
}

func (b *objectBuilder) ensureXObject(xo *semantic.XObject) (raw.ObjectRef, error) {
	ref := b.nextRef()
	dict := raw.Dict()
	dict.Set("Type", raw.Name("XObject"))
	dict.Set("Subtype", raw.Name("Image"))
	dict.Set("Width", raw.Int(int64(xo.Width)))
	dict.Set("Height", raw.Int(int64(xo.Height)))
	color := "DeviceRGB"
	if xo.ColorSpace != nil && xo.ColorSpace.ColorSpaceName() != "" {
		color = xo.ColorSpace.ColorSpaceName()
	}
	dict.Set("ColorSpace", raw.Name(color))
	bpc := xo.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	dict.Set("BitsPerComponent", raw.Int(int64(bpc)))
	if xo.Interpolate {
		dict.Set("Interpolate", raw.Bool(true))
	}
	if xo.SMask != nil {
		maskRef, err := b.ensureXObject(xo.SMask)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		dict.Set("SMask", raw.Ref(maskRef))
	}
	stream, err := b.encodeStream(dict, xo.Data)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	b.objects[ref] = stream
	return ref, nil
}

func infoDict(info *semantic.DocumentInfo) *raw.DictObj {
	if info == nil {
		return nil
	}
	d := raw.Dict()
	set := func(key, val string) {
		if val != "" {
			d.Set(key, raw.Str(textString(val)))
		}
	}
	set("Title", info.Title)
	set("Author", info.Author)
	set("Subject", info.Subject)
	set("Creator", info.Creator)
	set("Producer", info.Producer)
	set("Keywords", strings.Join(info.Keywords, ", "))
	if !info.CreationDate.IsZero() {
		d.Set("CreationDate", raw.Str([]byte(formatDate(info.CreationDate))))
	}
	if d.Len() == 0 {
		return nil
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
