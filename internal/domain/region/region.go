// Package region maps team names to macro-regions using a canonical
// city/province lookup table.
package region

import (
	"strings"
	"unicode/utf8"

	"github.com/okian/vbrank/internal/domain/model"
)

// TableVersion identifies the lookup table revision. Bump it whenever keys
// are added, removed or moved between regions.
const TableVersion = "2025.1"

type group struct {
	region model.Region
	keys   []string
}

// groups is the single source of truth for region inference. A key appears
// exactly once; 광주 belongs to the Jeolla metropolitan city and 고성 to
// Gangwon.
var groups = []group{ //nolint:gochecknoglobals // immutable lookup table
	{model.RegionCapital, []string{
		"서울", "인천", "경기", "고양", "성남", "수원", "안산", "부천", "의정부", "안양",
		"평택", "시흥", "파주", "김포", "광명", "하남", "오산", "구리", "남양주", "용인",
		"화성", "안성", "의왕", "군포", "양주", "포천", "여주", "연천", "가평", "양평",
		"과천", "동두천", "이천",
	}},
	{model.RegionGyeongsang, []string{
		"부산", "대구", "울산", "경남", "경북", "창원", "마산", "진해", "진주", "통영",
		"사천", "김해", "밀양", "거제", "양산", "의령", "함안", "창녕", "남해", "하동",
		"산청", "함양", "거창", "합천", "포항", "경주", "김천", "안동", "구미", "영주",
		"영천", "상주", "문경", "경산", "군위", "의성", "청송", "영양", "영덕", "청도",
		"고령", "성주", "칠곡", "예천", "봉화", "울진", "울릉", "기장",
	}},
	{model.RegionJeolla, []string{
		"광주", "전남", "전북", "전주", "군산", "익산", "정읍", "남원", "김제", "완주",
		"진안", "무주", "장수", "임실", "순창", "고창", "부안", "목포", "여수", "순천",
		"나주", "광양", "담양", "곡성", "구례", "고흥", "보성", "화순", "장흥", "강진",
		"해남", "영암", "무안", "함평", "영광", "장성", "완도", "진도", "신안",
	}},
	{model.RegionChungcheong, []string{
		"대전", "세종", "충남", "충북", "청주", "충주", "제천", "보은", "옥천", "영동",
		"진천", "괴산", "음성", "단양", "증평", "천안", "공주", "보령", "아산", "서산",
		"논산", "계룡", "당진", "금산", "부여", "서천", "청양", "홍성", "예산", "태안",
	}},
	{model.RegionGangwon, []string{
		"강원", "춘천", "원주", "강릉", "동해", "태백", "속초", "삼척", "홍천", "횡성",
		"영월", "평창", "정선", "철원", "화천", "양구", "인제", "고성", "양양",
	}},
	{model.RegionJeju, []string{
		"제주", "서귀포",
	}},
}

type entry struct {
	key    string
	region model.Region
	length int
}

var (
	table = buildTable()      //nolint:gochecknoglobals // derived from groups
	index = buildIndex(table) //nolint:gochecknoglobals // derived from groups
	order = []model.Region{   //nolint:gochecknoglobals // canonical ordering
		model.RegionCapital,
		model.RegionGyeongsang,
		model.RegionJeolla,
		model.RegionChungcheong,
		model.RegionGangwon,
		model.RegionJeju,
	}
)

func buildTable() []entry {
	var out []entry
	for _, g := range groups {
		for _, k := range g.keys {
			out = append(out, entry{key: k, region: g.region, length: utf8.RuneCountInString(k)})
		}
	}
	return out
}

func buildIndex(entries []entry) map[string]model.Region {
	m := make(map[string]model.Region, len(entries))
	for _, e := range entries {
		if _, dup := m[e.key]; !dup {
			m[e.key] = e.region
		}
	}
	return m
}

// Resolve maps a single token to its macro-region. An exact key match wins;
// otherwise the longest key contained in the token is used, earlier table
// entries winning ties. Tokens matching nothing resolve to RegionUnknown.
func Resolve(token string) model.Region {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.RegionUnknown
	}
	if r, ok := index[token]; ok {
		return r
	}
	best := entry{region: model.RegionUnknown}
	for _, e := range table {
		if e.length > best.length && strings.Contains(token, e.key) {
			best = e
		}
	}
	return best.region
}

// FromName resolves the region of a team from the first whitespace-delimited
// token of its name.
func FromName(name string) model.Region {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return model.RegionUnknown
	}
	return Resolve(fields[0])
}

// All returns the six macro-regions in canonical order.
func All() []model.Region {
	out := make([]model.Region, len(order))
	copy(out, order)
	return out
}

// Keys returns the number of city/province keys in the table.
func Keys() int { return len(table) }
