package http

import (
	"html/template"

	"github.com/siweifamily/dashboard/internal/models"
)

// pageFuncs maps display tiers to the CSS classes of the original page.
var pageFuncs = template.FuncMap{
	"tierClass": func(t models.Tier) string {
		switch t {
		case models.TierGold:
			return "text-gold"
		case models.TierCyan:
			return "text-cyan"
		case models.TierRed:
			return "text-red"
		default:
			return "text-white"
		}
	},
}

const pageTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>四維家族 常用工具</title>
<style>
  body { background-color: #f5f5f5; font-family: "Microsoft JhengHei", sans-serif; margin: 20px; }
  .main-title { font-size: 36px; font-weight: bold; text-align: center; color: #000; margin-bottom: 20px; }
  .section-title { font-size: 24px; font-weight: bold; color: #000; margin: 10px 0 5px; border-bottom: 2px solid #ccc; }
  .data-box { background-color: #2c3e50; padding: 15px; border-radius: 5px; font-family: Consolas, monospace;
              font-size: 22px; font-weight: bold; margin-bottom: 10px; }
  .dest-title { background-color: #34495e; padding: 5px 10px; border-radius: 5px 5px 0 0; margin-top: 10px;
                color: white; font-size: 18px; font-weight: bold; }
  .text-gold { color: #f1c40f; }
  .text-cyan { color: #00d2d3; }
  .text-green { color: #2ecc71; }
  .text-red { color: #ff3333; }
  .text-white { color: #ffffff; }
  a { text-decoration: none; display: block; margin-bottom: 5px; }
  a:hover { text-decoration: underline; }
  .columns { display: flex; gap: 20px; }
  .column { flex: 1; }
  .footer { color: #7f8c8d; font-size: 14px; margin-top: 20px; }
</style>
</head>
<body>
<div class="main-title">四維家族 專屬工具箱</div>
<form method="POST" action="/api/refresh" onsubmit="setTimeout(function(){location.reload()},300)">
  <button type="submit">🔄 點擊手動更新所有即時資訊 (時間/路況/天氣)</button>
</form>
<div class="columns">
  <div class="column">
    <div class="section-title">世界時間 (Live)</div>
    <div class="data-box text-gold">
      台灣&emsp;: {{.Clock.Taiwan}}<br>
      波士頓: {{.Clock.Boston}}<br>
      德國&emsp;: {{.Clock.Germany}}
    </div>
    <div class="section-title">即時匯率 (台銀)</div>
    <div class="data-box text-green">
      {{- if .Currency.Error}}
      {{.Currency.Error}}
      {{- else}}
      美金 : {{.Currency.USD}}<br>
      歐元 : {{.Currency.EUR}}<br>
      日圓 : {{.Currency.JPY}}
      {{- end}}
    </div>
    <div class="section-title">即時氣溫 &amp; 降雨率</div>
    <div class="data-box text-cyan">
      {{- range .Weather}}
      {{.Display}}<br>
      {{- end}}
    </div>
    <div class="section-title">今日即時油價 (中油)</div>
    <div class="data-box text-red" style="text-align:center;">
      {{- if .Fuel.Error}}
      {{.Fuel.Error}}
      {{- else}}
      92無鉛: {{.Fuel.Grade92}} | 95無鉛: {{.Fuel.Grade95}} | 98無鉛: {{.Fuel.Grade98}}
      {{- end}}
    </div>
  </div>
  <div class="column">
    <div class="section-title">即時路況 (Google Map)</div>
    <div class="footer">※ 點擊下方文字可直接開啟 Google 地圖導航</div>
    {{- range .Commutes}}
    <div class="dest-title">{{.Name}}</div>
    <div class="data-box" style="margin-top:0; border-radius:0 0 5px 5px;">
      <a href="{{.Outbound.MapLink}}" target="_blank" class="{{tierClass .Outbound.Tier}}">{{.Outbound.Display}}</a>
      <a href="{{.Return.MapLink}}" target="_blank" class="{{tierClass .Return.Tier}}">{{.Return.Display}}</a>
    </div>
    {{- end}}
  </div>
</div>
<div class="footer">
  <a href="https://yt1s.ai/zh-tw/youtube-to-mp3/" target="_blank">YouTube 轉 MP3 →</a>
  產生時間: {{.Generated.Format "15:04:05"}}
</div>
</body>
</html>
`
