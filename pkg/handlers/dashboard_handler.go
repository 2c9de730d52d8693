package handlers

import (
	"net/http"

	"trend-dashboard/internal/views"
	"trend-dashboard/pkg/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler はダッシュボード画面のハンドラです。
type DashboardHandler struct {
	trendClient       *services.TrendClient
	statisticsService *services.StatisticsService
	defaultTheme      views.Theme
}

// NewDashboardHandler は新しいDashboardHandlerを生成します。
// defaultTheme はテーマCookieがない場合に使う値（"dark" または "light"）です。
func NewDashboardHandler(trendClient *services.TrendClient, statisticsService *services.StatisticsService, defaultTheme string) *DashboardHandler {
	return &DashboardHandler{
		trendClient:       trendClient,
		statisticsService: statisticsService,
		defaultTheme:      views.ParseTheme(defaultTheme, views.Theme{}),
	}
}

// themeFor はリクエストのCookieからテーマを解決します。
func (h *DashboardHandler) themeFor(c *gin.Context) views.Theme {
	value, err := c.Cookie(views.ThemeCookieName)
	if err != nil {
		return h.defaultTheme
	}
	return views.ParseTheme(value, h.defaultTheme)
}

// ShowDashboard は予測データを1回取得してダッシュボードを描画します。
// 取得に失敗した場合はエラー画面を返し、リトライはしません。
func (h *DashboardHandler) ShowDashboard(c *gin.Context) {
	theme := h.themeFor(c)

	data, err := h.trendClient.FetchTrends(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "error.html", views.BuildErrorPage(err, theme))
		return
	}

	dashboard := views.BuildDashboard(data, theme)
	dashboard.Forecast = h.statisticsService.SummarizeForecast(data.Forecasts)
	c.HTML(http.StatusOK, "dashboard.html", dashboard)
}

// ToggleTheme はテーマを切り替えてダッシュボードへリダイレクトします。
// CookieはMax-Ageを持たず、ブラウザセッションの間だけ保持されます。
func (h *DashboardHandler) ToggleTheme(c *gin.Context) {
	next := h.themeFor(c).Toggled()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(views.ThemeCookieName, next.String(), 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}
