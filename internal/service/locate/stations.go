// internal/service/locate/stations.go

package locate

import "strings"

// stationDistricts maps major Seoul subway stations to their districts.
// Used as the offline fallback when the search provider cannot resolve a
// station to coordinates.
var stationDistricts = map[string]string{
	"강남":           "강남구",
	"홍대입구":         "마포구",
	"잠실":           "송파구",
	"사당":           "동작구",
	"건대입구":         "광진구",
	"신림":           "관악구",
	"서울대입구":        "관악구",
	"선릉":           "강남구",
	"역삼":           "강남구",
	"삼성":           "강남구",
	"교대":           "서초구",
	"서초":           "서초구",
	"신촌":           "서대문구",
	"이대":           "서대문구",
	"합정":           "마포구",
	"망원":           "마포구",
	"여의도":          "영등포구",
	"영등포":          "영등포구",
	"노원":           "노원구",
	"천호":           "강동구",
	"고속터미널":        "서초구",
	"종로3가":         "종로구",
	"을지로입구":        "중구",
	"명동":           "중구",
	"광화문":          "종로구",
	"시청":           "중구",
	"동대문":          "동대문구",
	"왕십리":          "성동구",
	"성수":           "성동구",
	"압구정":          "강남구",
	"청담":           "강남구",
	"신사":           "강남구",
	"양재":           "서초구",
	"신도림":          "구로구",
	"구로디지털단지":      "구로구",
	"가산디지털단지":      "금천구",
	"종각":           "종로구",
	"을지로3가":        "중구",
	"충무로":          "중구",
	"약수":           "중구",
	"한양대":          "성동구",
	"뚝섬":           "성동구",
	"강변":           "광진구",
	"잠실나루":         "송파구",
	"석촌":           "송파구",
	"송파":           "송파구",
	"가락시장":         "송파구",
	"수서":           "강남구",
	"대치":           "강남구",
	"도곡":           "강남구",
	"매봉":           "강남구",
	"양재시민의숲":       "서초구",
}

// DistrictForStation returns the district a station sits in, or "" for
// stations outside the table. A trailing "역" suffix is ignored.
func DistrictForStation(station string) string {
	name := strings.TrimSpace(strings.TrimSuffix(station, "역"))
	return stationDistricts[name]
}

// districtFromAddress pulls the district out of a station's address,
// e.g. "서울 강남구 역삼동 858" -> "강남구".
func districtFromAddress(address string) string {
	for _, part := range strings.Fields(address) {
		if strings.HasSuffix(part, "구") || strings.HasSuffix(part, "군") {
			return part
		}
	}
	return ""
}

// stationQuery normalizes a station name into the "<name>역" search form.
func stationQuery(station string) string {
	if strings.HasSuffix(station, "역") {
		return station
	}
	return station + "역"
}
