package targets

import (
	"paintly-probe/internal/locator"
)

var (
	historyWords  = []string{"履歴", "History", "生成履歴"}
	generateWords = []string{"シミュレーション", "生成", "Generate"}
)

// Default returns the catalogue for the Paintly customer pages and sign-in
// flow. Candidate order is deliberate: stable test ids first, then
// attribute values, then visible text.
func Default() *Catalogue {
	return New(
		locator.Target{
			Name: HistoryTab,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="history-tab"]`),
				locator.CSS(`[value="history"]`),
				locator.Text("button", "履歴", "History"),
				locator.Role("tab", "履歴", "History"),
				locator.Text("", "生成履歴"),
			},
			Scans: []locator.Scan{
				{Coarse: ClickableScan, Predicate: locator.ContainsAny(historyWords...)},
				{Coarse: RadixTabScan, Predicate: locator.ContainsAny(historyWords...)},
			},
		},
		locator.Target{
			Name: GenerateTab,
			Candidates: []locator.Candidate{
				locator.CSS(`[value="generation"]`),
				locator.CSS(`[value="generate"]`),
				locator.CSS(`[data-tab="simulation"]`),
				locator.Role("tab", "シミュレーション", "生成"),
				locator.Text("button", "シミュレーション"),
			},
			Scans: []locator.Scan{
				{Coarse: RadixTabScan, Predicate: locator.ContainsAny(generateWords...)},
			},
		},
		locator.Target{
			Name: GenerateButton,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="generate-button"]`),
				locator.Text("button", "生成", "実行", "Generate"),
			},
		},
		locator.Target{
			Name: HistoryPanel,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="generation-history"]`),
				locator.CSS(`.generation-history`),
			},
		},
		locator.Target{
			Name: HistoryItems,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="history-item"], .history-item, .generation-item, [data-generation-id]`),
			},
		},
		locator.Target{
			Name: EmptyState,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="empty-history"]`),
				locator.Text("", "履歴がありません", "まだ生成履歴がありません", "No history"),
			},
		},
		locator.Target{
			Name: DetailButton,
			Candidates: []locator.Candidate{
				locator.Text("button", "詳細", "Details"),
				locator.Text("", "詳細"),
			},
			Scans: []locator.Scan{
				{Coarse: ClickableScan, Predicate: locator.Equals("詳細", "Details", "詳細を見る")},
			},
		},
		locator.Target{
			Name: GeneratedImages,
			Candidates: []locator.Candidate{
				locator.CSS(`img[src*="generated"], img[src*="supabase"], img[alt*="生成"]`),
			},
		},
		locator.Target{
			Name: Slider,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-rcs="root"]`),
				locator.CSS(`[data-rcs]`),
				locator.CSS(`.image-comparison`),
				locator.CSS(`[class*="comparison"]`),
			},
		},
		locator.Target{
			Name: SliderHandle,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-rcs="handle-container"]`),
				locator.CSS(`[data-rcs="handle"]`),
				locator.Role("slider"),
				locator.CSS(`[class*="handle"]`),
			},
		},
		locator.Target{
			Name: SliderImages,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-rcs="image"]`),
				locator.CSS(`[data-rcs="root"] img`),
			},
		},
		locator.Target{
			Name: Sidebar,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-sidebar="sidebar"]`),
				locator.CSS(`[data-testid="sidebar"]`),
				locator.CSS(`.sidebar`),
				locator.CSS(`aside`),
				locator.CSS(`nav[aria-label*="サイドバー"], nav[aria-label*="sidebar"]`),
				locator.CSS(`div.h-screen.w-64`),
				locator.CSS(`nav`),
			},
		},
		locator.Target{
			Name: CloseSidebar,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="close-sidebar"]`),
				locator.Text("button", "サイドバーを閉じる", "Close sidebar"),
				locator.CSS(`button[aria-label*="閉じる"], button[aria-label*="close"]`),
				locator.CSS(`button[title*="閉じる"]`),
				locator.Text("button", "←", "×"),
			},
			Scans: []locator.Scan{
				{Coarse: "button", Predicate: locator.ContainsAny("サイドバーを閉じる", "close sidebar")},
			},
		},
		locator.Target{
			Name: NewCustomer,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-testid="new-customer"]`),
				locator.Text("button", "新規顧客ページ作成", "新規顧客"),
				locator.Text("button", "＋"),
			},
			Scans: []locator.Scan{
				{Coarse: ClickableScan, Predicate: locator.ContainsAny("新規顧客", "new customer")},
			},
		},
		locator.Target{
			Name: GoogleButton,
			Candidates: []locator.Candidate{
				locator.CSS(`[data-provider="google"]`),
				locator.Text("", "Googleで始める"),
				locator.Text("button", "Google"),
			},
			Scans: []locator.Scan{
				{Coarse: ClickableScan, Predicate: locator.ContainsAny("Google")},
			},
		},
		locator.Target{
			Name: SignInSubmit,
			Candidates: []locator.Candidate{
				locator.CSS(`button[type="submit"]`),
				locator.Text("button", "サインイン", "ログイン", "Sign in"),
			},
		},
		locator.Target{
			Name: EmailInput,
			Candidates: []locator.Candidate{
				locator.CSS(`input[type="email"]`),
				locator.CSS(`input[name="email"]`),
			},
		},
		locator.Target{
			Name: PasswordInput,
			Candidates: []locator.Candidate{
				locator.CSS(`input[type="password"]`),
				locator.CSS(`input[name="password"]`),
			},
		},
		locator.Target{
			Name: GoogleIdentifier,
			Candidates: []locator.Candidate{
				locator.CSS(`#identifierId`),
				locator.CSS(`input[type="email"]`),
			},
		},
		locator.Target{
			Name: GoogleIdentifyNext,
			Candidates: []locator.Candidate{
				locator.CSS(`#identifierNext`),
				locator.Text("button", "次へ", "Next"),
			},
		},
		locator.Target{
			Name: GooglePassword,
			Candidates: []locator.Candidate{
				locator.CSS(`input[name="Passwd"]`),
				locator.CSS(`input[type="password"]`),
			},
		},
		locator.Target{
			Name: GooglePasswordNext,
			Candidates: []locator.Candidate{
				locator.CSS(`#passwordNext`),
				locator.Text("button", "次へ", "Next"),
			},
		},
	)
}
