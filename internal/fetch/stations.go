package fetch

// Station is an IGS station offering near-real-time RINEX navigation
// files, carried over verbatim from the original station tables.
type Station struct {
	ID4  string // 4-character station ID
	ID9  string // 9-character long station ID (RINEX 3 naming)
	Name string
}

// StationsV3 lists IGS stations known to publish RINEX 3 navigation
// files, including ionosphere correction data.
var StationsV3 = []Station{
	{ID4: "func", ID9: "FUNC00PRT", Name: "Funchal"},
	{ID4: "flrs", ID9: "FLRS00PRT", Name: "Santa Cruz das Flore"},
	{ID4: "pdel", ID9: "PDEL00PRT", Name: "PONTA DELGADA"},
}

// StationsV2 lists IGS stations known to publish RINEX 2 navigation
// files.
var StationsV2 = []Station{
	{ID4: "abmf", ID9: "ABMF00GLP", Name: "Aeroport du Raizet"},
	{ID4: "aggo", ID9: "AGGO00ARG", Name: "AGGO"},
	{ID4: "ajac", ID9: "AJAC00FRA", Name: "Ajaccio"},
	{ID4: "ankr", ID9: "ANKR00TUR", Name: "Ankara"},
	{ID4: "areg", ID9: "AREG00PER", Name: "Arequipa"},
	{ID4: "ascg", ID9: "ASCG00SHN", Name: "Ascension"},
	{ID4: "bogi", ID9: "BOGI00POL", Name: "Borowa Gora"},
	{ID4: "bor1", ID9: "BOR100POL", Name: "Borowiec"},
	{ID4: "brst", ID9: "BRST00FRA", Name: "Brest"},
	{ID4: "chpg", ID9: "CHPG00BRA", Name: "Cachoeira Paulista"},
	{ID4: "cibg", ID9: "CIBG00IDN", Name: "Cibinong"},
	{ID4: "cpvg", ID9: "CPVG00CPV", Name: "CAP-VERT"},
	{ID4: "djig", ID9: "DJIG00DJI", Name: "Djibouti"},
	{ID4: "dlf1", ID9: "DLF100NLD", Name: "Delft"},
	{ID4: "ffmj", ID9: "FFMJ00DEU", Name: "Frankfurt/Main"},
	{ID4: "ftna", ID9: "FTNA00WLF", Name: "Futuna"},
	{ID4: "gamb", ID9: "GAMB00PYF", Name: "Rikitea"},
	{ID4: "gamg", ID9: "GAMG00KOR", Name: "Geochang"},
	{ID4: "glps", ID9: "GLPS00ECU", Name: "Galapagos Permanent Station"},
	{ID4: "glsv", ID9: "GLSV00UKR", Name: "Kiev/Golosiiv"},
	{ID4: "gmsd", ID9: "GMSD00JPN", Name: "GUTS Masda"},
	{ID4: "gop6", ID9: "GOP600CZE", Name: "Pecny, Ondrejov"},
	{ID4: "gop7", ID9: "GOP700CZE", Name: "Pecny, Ondrejov"},
	{ID4: "gope", ID9: "GOPE00CZE", Name: "Pecny, Ondrejov"},
	{ID4: "grac", ID9: "GRAC00FRA", Name: "Grasse"},
	{ID4: "gras", ID9: "GRAS00FRA", Name: "Observatoire de Calern - OCA"},
	{ID4: "holb", ID9: "HOLB00CAN", Name: "Holberg"},
	{ID4: "hueg", ID9: "HUEG00DEU", Name: "Huegelheim"},
	{ID4: "ieng", ID9: "IENG00ITA", Name: "Torino"},
	{ID4: "ista", ID9: "ISTA00TUR", Name: "Istanbul"},
	{ID4: "izmi", ID9: "IZMI00TUR", Name: "Izmir"},
	{ID4: "jfng", ID9: "JFNG00CHN", Name: "Juifeng"},
	{ID4: "joz2", ID9: "JOZ200POL", Name: "Jozefoslaw"},
	{ID4: "joze", ID9: "JOZE00POL", Name: "Jozefoslaw"},
	{ID4: "kerg", ID9: "KERG00ATF", Name: "Kerguelen Islands"},
	{ID4: "kitg", ID9: "KITG00UZB", Name: "Kitab"},
	{ID4: "koug", ID9: "KOUG00GUF", Name: "Kourou"},
	{ID4: "krgg", ID9: "KRGG00ATF", Name: "Kerguelen Islands"},
	{ID4: "krs1", ID9: "KRS100TUR", Name: "Kars"},
	{ID4: "lama", ID9: "LAMA00POL", Name: "Lamkowo"},
	{ID4: "leij", ID9: "LEIJ00DEU", Name: "Leipzig"},
	{ID4: "lmmf", ID9: "LMMF00MTQ", Name: "Aeroport Aime CESAIRE-LE LAMENTIN"},
	{ID4: "lroc", ID9: "LROC00FRA", Name: "La Rochelle"},
	{ID4: "mad2", ID9: "MAD200ESP", Name: "Madrid Deep Space Tracking Station"},
	{ID4: "madr", ID9: "MADR00ESP", Name: "Madrid Deep Space Tracking Station"},
	{ID4: "mayg", ID9: "MAYG00MYT", Name: "Dzaoudzi"},
	{ID4: "mers", ID9: "MERS00TUR", Name: "Mersin"},
	{ID4: "mikl", ID9: "MIKL00UKR", Name: "Mykolaiv"},
	{ID4: "morp", ID9: "MORP00GBR", Name: "Morpeth"},
	{ID4: "nklg", ID9: "NKLG00GAB", Name: "N'KOLTANG"},
	{ID4: "nyal", ID9: "NYAL00NOR", Name: "Ny-Alesund"},
	{ID4: "nya1", ID9: "NYA100NOR", Name: "Ny-Alesund"},
	{ID4: "ohi2", ID9: "OHI200ATA", Name: "O'Higgins"},
	{ID4: "orid", ID9: "ORID00MKD", Name: "Ohrid"},
	{ID4: "owmg", ID9: "OWMG00NZL", Name: "Chatham Island"},
	{ID4: "polv", ID9: "POLV00UKR", Name: "Poltava"},
	{ID4: "ptbb", ID9: "PTBB00DEU", Name: "Braunschweig"},
	{ID4: "ptgg", ID9: "PTGG00PHL", Name: "Manilla"},
	{ID4: "rabt", ID9: "RABT00MAR", Name: "Rabat, EMI"},
	{ID4: "reun", ID9: "REUN00REU", Name: "La Reunion - Observatoire Volcanologique"},
	{ID4: "rgdg", ID9: "RGDG00ARG", Name: "Rio Grande"},
	{ID4: "riga", ID9: "RIGA00LVA", Name: "RIGA permanent GPS"},
	{ID4: "seyg", ID9: "SEYG00SYC", Name: "Mahe"},
	{ID4: "sofi", ID9: "SOFI00BGR", Name: "Sofia"},
	{ID4: "stj3", ID9: "STJ300CAN", Name: "STJ3 CACS-GSD"},
	{ID4: "sulp", ID9: "SULP00UKR", Name: "Lviv Polytechnic"},
	{ID4: "svtl", ID9: "SVTL00RUS", Name: "Svetloe"},
	{ID4: "tana", ID9: "TANA00ETH", Name: "ILA, Bahir Dar University"},
	{ID4: "thtg", ID9: "THTG00PYF", Name: "Papeete Tahiti"},
	{ID4: "thti", ID9: "THTI00PYF", Name: "Tahiti"},
	{ID4: "tit2", ID9: "TIT200DEU", Name: "Titz / Jackerath"},
	{ID4: "tlse", ID9: "TLSE00FRA", Name: "Toulouse"},
	{ID4: "tro1", ID9: "TRO100NOR", Name: "Tromsoe"},
	{ID4: "warn", ID9: "WARN00DEU", Name: "Warnemuende"},
	{ID4: "whit", ID9: "WHIT00CAN", Name: "WHIT CACS-GSD"},
	{ID4: "wroc", ID9: "WROC00POL", Name: "Wroclaw"},
	{ID4: "wtza", ID9: "WTZA00DEU", Name: "Wettzell"},
	{ID4: "yel2", ID9: "YEL200CAN", Name: "Yellow Knife"},
	{ID4: "zeck", ID9: "ZECK00RUS", Name: "Zelenchukskaya"},
	{ID4: "zim2", ID9: "ZIM200CHE", Name: "Zimmerwald"},
	{ID4: "zimm", ID9: "ZIMM00CHE", Name: "Zimmerwald L+T 88"},
}

// Lookup looks up a station by its 4-character ID across both the
// RINEX 3 and RINEX 2 tables, reporting which format it publishes.
func Lookup(id4 string) (station Station, useRinex3 bool, ok bool) {
	for _, s := range StationsV3 {
		if s.ID4 == id4 {
			return s, true, true
		}
	}
	for _, s := range StationsV2 {
		if s.ID4 == id4 {
			return s, false, true
		}
	}
	return Station{}, false, false
}
