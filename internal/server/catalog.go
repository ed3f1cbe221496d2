package server

import "github.com/alkime/avatarcast/internal/gateway"

// Built-in catalog data for development. Ids follow the upstream providers
// (Azure neural voices, avatar packs) so requests recorded against this
// server replay against the real one.

var languages = []gateway.Language{
	{Code: "zh-CN", Name: "Mandarin (Simplified Chinese)"},
	{Code: "zh-HK", Name: "Cantonese (Hong Kong)"},
	{Code: "en-US", Name: "English (US)"},
}

type catalogKey struct {
	language string
	gender   string
}

var voiceCatalog = map[catalogKey][]gateway.Voice{
	{"zh-CN", "female"}: {
		{ID: "zh-CN-XiaoxiaoNeural", Name: "Xiaoxiao"},
		{ID: "zh-CN-XiaoyiNeural", Name: "Xiaoyi"},
	},
	{"zh-CN", "male"}: {
		{ID: "zh-CN-YunxiNeural", Name: "Yunxi"},
		{ID: "zh-CN-YunjianNeural", Name: "Yunjian"},
	},
	{"zh-HK", "female"}: {
		{ID: "zh-HK-HiuMaanNeural", Name: "HiuMaan"},
		{ID: "zh-HK-HiuGaaiNeural", Name: "HiuGaai"},
	},
	{"zh-HK", "male"}: {
		{ID: "zh-HK-WanLungNeural", Name: "WanLung"},
		{ID: "zh-HK-SamNeural", Name: "Sam"},
	},
	{"en-US", "female"}: {
		{ID: "en-US-JennyNeural", Name: "Jenny"},
		{ID: "en-US-AriaNeural", Name: "Aria"},
	},
	{"en-US", "male"}: {
		{ID: "en-US-GuyNeural", Name: "Guy"},
		{ID: "en-US-DavisNeural", Name: "Davis"},
	},
}

var avatarCatalog = map[catalogKey][]gateway.Avatar{
	{"zh-CN", "female"}: {
		{ID: "zh-f-01", Name: "Liu Fang", PreviewURL: "/static/avatars/zh-f-01.jpg"},
		{ID: "zh-f-02", Name: "Wang Mei", PreviewURL: "/static/avatars/zh-f-02.jpg"},
	},
	{"zh-CN", "male"}: {
		{ID: "zh-m-01", Name: "Li Ming", PreviewURL: "/static/avatars/zh-m-01.jpg"},
		{ID: "zh-m-02", Name: "Zhang Wei", PreviewURL: "/static/avatars/zh-m-02.jpg"},
	},
	{"zh-HK", "female"}: {
		{ID: "hk-f-01", Name: "Wong Mei Lai", PreviewURL: "/static/avatars/hk-f-01.jpg"},
		{ID: "hk-f-02", Name: "Miss Chan", PreviewURL: "/static/avatars/hk-f-02.jpg"},
	},
	{"zh-HK", "male"}: {
		{ID: "hk-m-01", Name: "Chan Tai Man", PreviewURL: "/static/avatars/hk-m-01.jpg"},
		{ID: "hk-m-02", Name: "Mr Wong", PreviewURL: "/static/avatars/hk-m-02.jpg"},
	},
	{"en-US", "female"}: {
		{ID: "en-f-01", Name: "Sarah", PreviewURL: "/static/avatars/en-f-01.jpg"},
		{ID: "en-f-02", Name: "Emily", PreviewURL: "/static/avatars/en-f-02.jpg"},
	},
	{"en-US", "male"}: {
		{ID: "en-m-01", Name: "John", PreviewURL: "/static/avatars/en-m-01.jpg"},
		{ID: "en-m-02", Name: "Michael", PreviewURL: "/static/avatars/en-m-02.jpg"},
	},
}

func lookupVoices(language, gender string) []gateway.Voice {
	return voiceCatalog[catalogKey{language, gender}]
}

func lookupAvatars(language, gender string) []gateway.Avatar {
	return avatarCatalog[catalogKey{language, gender}]
}
