package airports

// The static city table. Entries are an ordered slice, not a map: the fuzzy
// containment match returns the first hit in declaration order, so iteration
// order is part of the resolver's contract.
//
// Cities served by several airports map to comma-joined codes.
type cityAirports struct {
	city  string
	codes string
}

var commonAirports = []cityAirports{
	{"Toronto", "YYZ,YTZ"},
	{"Montreal", "YUL,YHU"},
	{"Vancouver", "YVR,YXX"},
	{"Calgary", "YYC"},
	{"Ottawa", "YOW"},
	{"Edmonton", "YEG"},

	{"New York", "JFK,LGA,EWR"},
	{"Los Angeles", "LAX,BUR,SNA,LGB,ONT"},
	{"San Francisco", "SFO,OAK,SJC"},
	{"Chicago", "ORD,MDW"},
	{"Washington DC", "IAD,DCA,BWI"},
	{"Miami", "MIA,FLL,PBI"},
	{"Dallas", "DFW,DAL"},
	{"Houston", "IAH,HOU"},
	{"Boston", "BOS"},
	{"Seattle", "SEA"},

	{"London", "LHR,LGW,STN,LTN,LCY,SEN"},
	{"Paris", "CDG,ORY"},
	{"Rome", "FCO,CIA"},
	{"Milan", "MXP,LIN,BGY"},
	{"Berlin", "BER"},
	{"Amsterdam", "AMS"},
	{"Frankfurt", "FRA"},
	{"Munich", "MUC"},
	{"Madrid", "MAD"},
	{"Barcelona", "BCN"},

	{"Beijing", "PEK,PKX"},
	{"Shanghai", "PVG,SHA"},
	{"Guangzhou", "CAN"},
	{"Shenzhen", "SZX"},
	{"Chengdu", "CTU,TIA"},
	{"Chongqing", "CKG"},
	{"Wuhan", "WUH"},
	{"Hong Kong", "HKG"},
	{"Macau", "MFM"},
	{"Taipei", "TPE,TSA"},
}
