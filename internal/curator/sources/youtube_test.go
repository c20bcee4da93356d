package sources

import "testing"

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3725},
		{"PT15M33S", 933},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"", 0},
		{"1:02:03", 0},
		{"P1DT2H", 0},
	}
	for _, tt := range tests {
		if got := parseISO8601Duration(tt.in); got != tt.want {
			t.Errorf("parseISO8601Duration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPickBestTrack(t *testing.T) {
	langs := []string{"en", "zh-Hans"}

	manual := captionTrack{BaseURL: "https://yt/tt?lang=en", LanguageCode: "en"}
	asr := captionTrack{BaseURL: "https://yt/tt?lang=en&kind=asr", LanguageCode: "en", Kind: "asr"}
	zh := captionTrack{BaseURL: "https://yt/tt?lang=zh", LanguageCode: "zh-Hans"}
	potoken := captionTrack{BaseURL: "https://yt/tt?lang=en&exp=xpe", LanguageCode: "en"}
	other := captionTrack{BaseURL: "https://yt/tt?lang=de", LanguageCode: "de"}

	t.Run("manual beats asr", func(t *testing.T) {
		got, ok := pickBestTrack([]captionTrack{asr, manual}, langs)
		if !ok || got.Kind == "asr" {
			t.Errorf("got %+v, want the manual track", got)
		}
	})

	t.Run("asr in preferred language beats other manual", func(t *testing.T) {
		got, ok := pickBestTrack([]captionTrack{other, asr}, langs)
		if !ok || got.LanguageCode != "en" {
			t.Errorf("got %+v, want the asr en track", got)
		}
	})

	t.Run("language priority order", func(t *testing.T) {
		got, ok := pickBestTrack([]captionTrack{zh, manual}, langs)
		if !ok || got.LanguageCode != "en" {
			t.Errorf("got %+v, want en before zh-Hans", got)
		}
	})

	t.Run("potoken tracks are skipped", func(t *testing.T) {
		got, ok := pickBestTrack([]captionTrack{potoken, zh}, langs)
		if !ok || got.LanguageCode != "zh-Hans" {
			t.Errorf("got %+v, want the fetchable zh track", got)
		}
	})

	t.Run("all tracks need potoken", func(t *testing.T) {
		_, ok := pickBestTrack([]captionTrack{potoken}, langs)
		if ok {
			t.Error("expected no usable track")
		}
	})

	t.Run("fallback to any track", func(t *testing.T) {
		got, ok := pickBestTrack([]captionTrack{other}, langs)
		if !ok || got.LanguageCode != "de" {
			t.Errorf("got %+v, want the only track", got)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1} trailing garbage`, `{"a":1}`},
		{"nested", `{"a":{"b":{"c":[]}}}};var x=1`, `{"a":{"b":{"c":[]}}}`},
		{"braces in strings", `{"s":"}{"} rest`, `{"s":"}{"}`},
		{"escaped quote", `{"s":"\"}"} rest`, `{"s":"\"}"}`},
		{"not json", `var x = 1`, ""},
		{"unterminated", `{"a":1`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}
