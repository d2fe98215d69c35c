package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ocr/internal/ocr"
	"resume-ocr/resume/model"
)

const pageOne = `# 履歴書

ふりがな　やまだ　たろう
氏名：山田太郎
生年月日：1990年5月3日（満34歳）
性別：男
ふりがな　とうきょうと しぶやく
現住所：〒150-0001 東京都渋谷区神宮前1-2-3（アパート101）
電話番号：090-1234-5678
E-mail：taro@example.com`

const pageTwo = `学歴・職歴

学歴
2009年4月 東京都立新宿高等学校 入学
2012年3月 東京都立新宿高等学校 卒業
職歴
2016年4月 株式会社サンプル 入社
２０２０年３月 一身上の都合により退職
免許・資格
2015年6月 普通自動車第一種運転免許 取得
健康状態：良好
趣味・特技：読書、ランニング
最寄駅：JR山手線 渋谷駅
扶養家族数（配偶者を除く）：2人
配偶者：あり
配偶者の扶養義務：なし`

func sampleDocument() ocr.Document {
	// pages out of order on purpose
	return ocr.Document{Pages: []ocr.Page{
		{Index: 1, Markdown: pageTwo},
		{Index: 0, Markdown: pageOne},
	}}
}

func TestExtractFullResume(t *testing.T) {
	data, err := Extract(sampleDocument())
	require.NoError(t, err)

	require.NotNil(t, data.Name)
	assert.Equal(t, "山田太郎", *data.Name)
	require.NotNil(t, data.NameKana)
	assert.Equal(t, "やまだ　たろう", *data.NameKana)
	require.NotNil(t, data.AddressKana)
	assert.Equal(t, "とうきょうと しぶやく", *data.AddressKana)
	require.NotNil(t, data.BirthDate)
	assert.Equal(t, "1990年5月3日", *data.BirthDate)
	require.NotNil(t, data.Age)
	assert.Equal(t, 34, *data.Age)
	require.NotNil(t, data.Gender)
	assert.Equal(t, "男", *data.Gender)
	require.NotNil(t, data.Address)
	assert.Equal(t, "〒150-0001 東京都渋谷区神宮前1-2-3", *data.Address)
	require.NotNil(t, data.PostalCode)
	assert.Equal(t, "150-0001", *data.PostalCode)
	require.NotNil(t, data.PhoneNumber)
	assert.Equal(t, "090-1234-5678", *data.PhoneNumber)
	require.NotNil(t, data.Email)
	assert.Equal(t, "taro@example.com", *data.Email)
	require.NotNil(t, data.HealthCondition)
	assert.Equal(t, "良好", *data.HealthCondition)
	require.NotNil(t, data.Hobbies)
	assert.Equal(t, "読書、ランニング", *data.Hobbies)
	require.NotNil(t, data.NearestStation)
	assert.Equal(t, "JR山手線 渋谷駅", *data.NearestStation)
	require.NotNil(t, data.Dependents)
	assert.Equal(t, 2, *data.Dependents)
	require.NotNil(t, data.HasSpouse)
	assert.True(t, *data.HasSpouse)
	require.NotNil(t, data.SupportingSpouse)
	assert.False(t, *data.SupportingSpouse)

	assert.Equal(t, []model.Entry{
		{Year: "2009", Month: "4", Description: "東京都立新宿高等学校 入学"},
		{Year: "2012", Month: "3", Description: "東京都立新宿高等学校 卒業"},
	}, data.EducationHistory)
	assert.Equal(t, []model.Entry{
		{Year: "2016", Month: "4", Description: "株式会社サンプル 入社"},
		{Description: "２０２０年３月 一身上の都合により退職"},
	}, data.WorkHistory)
	assert.Equal(t, []model.Entry{
		{Year: "2015", Month: "6", Description: "普通自動車第一種運転免許 取得"},
	}, data.Licenses)
}

func TestExtractEmptyDocument(t *testing.T) {
	_, err := Extract(ocr.Document{})
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = Extract(ocr.Document{Pages: []ocr.Page{}})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExtractNeverFailsWithPages(t *testing.T) {
	docs := []ocr.Document{
		{Pages: []ocr.Page{{Index: 0}}},
		{Pages: []ocr.Page{{Index: 0, Markdown: "random text without labels"}}},
		{Pages: []ocr.Page{{Index: 3, Markdown: "氏名"}, {Index: 1, Markdown: "学歴\n"}}},
		{Pages: []ocr.Page{{Index: 0, Markdown: "生年月日（満歳"}}},
	}
	for _, doc := range docs {
		_, err := Extract(doc)
		assert.NoError(t, err)
	}
}

func TestExtractNameWithFullWidthColon(t *testing.T) {
	data := ExtractText("氏名：山田太郎")
	require.NotNil(t, data.Name)
	assert.Equal(t, "山田太郎", *data.Name)
}

func TestExtractBirthDateAndAge(t *testing.T) {
	data := ExtractText("生年月日：1990年5月3日（満34歳）")
	require.NotNil(t, data.BirthDate)
	assert.Equal(t, "1990年5月3日", *data.BirthDate)
	require.NotNil(t, data.Age)
	assert.Equal(t, 34, *data.Age)

	data = ExtractText("生年月日：1990年5月3日")
	require.NotNil(t, data.BirthDate)
	assert.Equal(t, "1990年5月3日", *data.BirthDate)
	assert.Nil(t, data.Age)

	data = ExtractText("生年月日 1985年1月2日 (満 39 歳)")
	require.NotNil(t, data.Age)
	assert.Equal(t, 39, *data.Age)
}

func TestExtractEducationStopsAtWorkHeader(t *testing.T) {
	text := "学歴\n2009年4月 A高校 入学\n2012年3月 A高校 卒業\n職歴\n2016年4月 B社 入社\n"
	data := ExtractText(text)

	require.Len(t, data.EducationHistory, 2)
	for _, e := range data.EducationHistory {
		assert.NotContains(t, e.Description, "職歴")
		assert.NotContains(t, e.Description, "B社")
	}
	require.Len(t, data.WorkHistory, 1)
	assert.Equal(t, "B社 入社", data.WorkHistory[0].Description)
}

func TestExtractLicensesBeforeWorkHistory(t *testing.T) {
	data := ExtractText("免許・資格\n2015年6月 普通自動車免許\n職歴\n2016年4月 B社 入社\n")

	require.Len(t, data.Licenses, 1)
	assert.Equal(t, model.Entry{Year: "2015", Month: "6", Description: "普通自動車免許"}, data.Licenses[0])
	require.Len(t, data.WorkHistory, 1)
	assert.Equal(t, "B社 入社", data.WorkHistory[0].Description)
}

func TestExtractWorkBeforeEducation(t *testing.T) {
	data := ExtractText("職歴\n2016年4月 B社 入社\n免許・資格\n2015年6月 普通自動車免許\n学歴\n2009年4月 A高校 入学\n")

	require.Len(t, data.WorkHistory, 1)
	require.Len(t, data.Licenses, 1)
	require.Len(t, data.EducationHistory, 1)
	assert.Equal(t, "A高校 入学", data.EducationHistory[0].Description)
}

func TestSectionRulesTargetListFields(t *testing.T) {
	for _, s := range sectionRules {
		_, ok := model.ListSetter(s.field)
		assert.True(t, ok, "section %s", s.header)
		assert.NotContains(t, strings.Split(terminators(sectionRules, s), "|"), s.header)
	}
	assert.Panics(t, func() {
		compileSections([]section{{field: model.FieldName, header: `氏名`}})
	})
}

func TestExtractSectionRunsToEndOfText(t *testing.T) {
	data := ExtractText("免許・資格\n2015年6月 普通自動車免許\n2018年1月 TOEIC 800点")
	require.Len(t, data.Licenses, 2)
	assert.Equal(t, "TOEIC 800点", data.Licenses[1].Description)
}

func TestExtractMissingSectionIsNil(t *testing.T) {
	data := ExtractText("氏名：山田太郎")
	assert.Nil(t, data.EducationHistory)
	assert.Nil(t, data.WorkHistory)
	assert.Nil(t, data.Licenses)
	assert.Nil(t, data.Email)
	assert.Nil(t, data.Age)
	assert.Nil(t, data.HasSpouse)
}

func TestExtractGenderRestricted(t *testing.T) {
	assert.Nil(t, ExtractText("性別：その他").Gender)

	data := ExtractText("性別　女")
	require.NotNil(t, data.Gender)
	assert.Equal(t, "女", *data.Gender)
}

func TestExtractPostalCodeOnlyFromAddress(t *testing.T) {
	data := ExtractText("連絡先 〒100-0001\n現住所：東京都千代田区")
	require.NotNil(t, data.Address)
	assert.Equal(t, "東京都千代田区", *data.Address)
	assert.Nil(t, data.PostalCode)
}

func TestExtractMarkdownTableCells(t *testing.T) {
	text := strings.Join([]string{
		"| 氏名 | 山田 花子 |",
		"| **性別** | 女 |",
		"| 電話番号 | 03-1234-5678 |",
	}, "\n")
	data := ExtractText(text)
	require.NotNil(t, data.Name)
	assert.Equal(t, "山田 花子", *data.Name)
	require.NotNil(t, data.Gender)
	assert.Equal(t, "女", *data.Gender)
	require.NotNil(t, data.PhoneNumber)
	assert.Equal(t, "03-1234-5678", *data.PhoneNumber)
}

func TestExtractBooleanTokens(t *testing.T) {
	data := ExtractText("配偶者：なし\n配偶者の扶養義務：あり")
	require.NotNil(t, data.HasSpouse)
	assert.False(t, *data.HasSpouse)
	require.NotNil(t, data.SupportingSpouse)
	assert.True(t, *data.SupportingSpouse)

	// permutations of the token characters are not accepted
	data = ExtractText("配偶者：りあ")
	assert.Nil(t, data.HasSpouse)
}

func TestExtractEmailLabelVariants(t *testing.T) {
	for _, text := range []string{"Email: a@b.jp", "E-mail：a@b.jp", "EMAIL a@b.jp"} {
		data := ExtractText(text)
		require.NotNil(t, data.Email, text)
		assert.Equal(t, "a@b.jp", *data.Email, text)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	data := ExtractText("氏名：一郎\n氏名：二郎")
	require.NotNil(t, data.Name)
	assert.Equal(t, "一郎", *data.Name)
}

func TestExtractContactBlockAndFreeText(t *testing.T) {
	text := `2024年 4月 1日現在
ふりがな　やまだ　たろう
氏名：山田太郎
ふりがな　とうきょうと
現住所：〒150-0001 東京都渋谷区神宮前1-2-3
電話番号：03-1111-2222
携帯電話：080-9876-5432
E-mail：taro@example.com
ふりがな　おおさかふ
連絡先（現住所以外に連絡を希望する場合のみ記入）
連絡先：〒530-0001 大阪府大阪市北区梅田1-1
連絡先電話：06-1234-5678
連絡先E-mail：home@example.com
志望動機：貴社の事業に共感したため
本人希望記入欄：貴社規定に従います`

	data := ExtractText(text)

	require.NotNil(t, data.WrittenDate)
	assert.Equal(t, "2024年 4月 1日", *data.WrittenDate)
	require.NotNil(t, data.MobilePhone)
	assert.Equal(t, "080-9876-5432", *data.MobilePhone)
	require.NotNil(t, data.PhoneNumber)
	assert.Equal(t, "03-1111-2222", *data.PhoneNumber)
	require.NotNil(t, data.ContactAddressKana)
	assert.Equal(t, "おおさかふ", *data.ContactAddressKana)
	require.NotNil(t, data.ContactAddress)
	assert.Equal(t, "〒530-0001 大阪府大阪市北区梅田1-1", *data.ContactAddress)
	require.NotNil(t, data.ContactPostalCode)
	assert.Equal(t, "530-0001", *data.ContactPostalCode)
	require.NotNil(t, data.ContactPhone)
	assert.Equal(t, "06-1234-5678", *data.ContactPhone)
	require.NotNil(t, data.ContactEmail)
	assert.Equal(t, "home@example.com", *data.ContactEmail)
	require.NotNil(t, data.Motivation)
	assert.Equal(t, "貴社の事業に共感したため", *data.Motivation)
	require.NotNil(t, data.Requests)
	assert.Equal(t, "貴社規定に従います", *data.Requests)
}

func TestExtractContactBlockAbsent(t *testing.T) {
	data := ExtractText("現住所：〒150-0001 東京都渋谷区\nE-mail：taro@example.com")
	assert.Nil(t, data.ContactAddress)
	assert.Nil(t, data.ContactPostalCode)
	assert.Nil(t, data.ContactEmail)
	assert.Nil(t, data.WrittenDate)
}
