package fonts

// Advance widths from the Adobe Core14 AFM files, WinAnsi 0x20..0x7E.

var helvetica = &Metrics{
	Name: Helvetica,
	ascii: [95]int{
		278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // 0x20
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // 0x30
		1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // 0x40
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // 0x50
		333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // 0x60
		556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // 0x70
	},
	extra: map[rune]int{
		'¡': 333, '¿': 611, '«': 556, '»': 556, '°': 400, 'ª': 370, 'º': 365,
		'·': 278, '§': 556, '×': 584, '€': 556, '–': 556, '—': 1000, '…': 1000,
		'‘': 222, '’': 222, '“': 333, '”': 333, '•': 350, '\u00a0': 278,
	},
	Missing: 556,
}

var helveticaBold = &Metrics{
	Name: HelveticaBold,
	ascii: [95]int{
		278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278, // 0x20
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611, // 0x30
		975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778, // 0x40
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556, // 0x50
		333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611, // 0x60
		611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584, // 0x70
	},
	extra: map[rune]int{
		'¡': 333, '¿': 611, '«': 556, '»': 556, '°': 400, 'ª': 370, 'º': 365,
		'·': 278, '§': 556, '×': 584, '€': 556, '–': 556, '—': 1000, '…': 1000,
		'‘': 278, '’': 278, '“': 500, '”': 500, '•': 350, '\u00a0': 278,
	},
	Missing: 556,
}

// Oblique variants share the upright widths.
var helveticaBoldOblique = &Metrics{
	Name:    HelveticaBoldOblique,
	ascii:   helveticaBold.ascii,
	extra:   helveticaBold.extra,
	Missing: 556,
}
