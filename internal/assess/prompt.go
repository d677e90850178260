package assess

import "fmt"

// Rubric is the CET-6 translation scoring guideline.
const Rubric = `
13-15分: 译文准确表达了原文的意思。用词贴切，行文流畅，基本上无语言错误，仅有个别小错。
10-12分: 译文基本上表达了原文的意思。文字通顺、连贯，无重大语言错误。
7-9分: 译文勉强表达了原文的意思。用词欠准确，语言错误相当多，其中有些是严重语言错误。
4-6分: 译文仅表达了一小部分原文的意思。用词不准确，有相当多的严重语言错误。
1-3分: 译文支离破碎。除个别词语或句子，绝大部分文字没有表达原文意思。
0分: 未作答，或只有几个孤立的词，或译文与原文毫不相关。
`

// BuildPrompt embeds the rubric and both texts verbatim.
func BuildPrompt(sourceText, translationText string) string {
	return fmt.Sprintf(`你是一位资深的大学英语六级（CET-6）阅卷老师。请根据以下评分标准，对学生的翻译进行严格、专业的评分。

评分标准：
%s
原文（中文）：
%s

学生译文（英文）：
%s

请提供以下反馈：
1. score: 0-15分的整数分数。
2. comments: 详细的评分理由（中文）。
3. standardTranslation: 一份高质量的标准参考译文（英文）。
4. improvements: 针对学生译文的具体修改建议。请提取出有问题的原文片段(originalSnippet)，提供修正后的片段(revisedSnippet)，并用中文解释原因(explanation)。
5. vocabulary: 值得积累的高级句式、短语或词汇（中英对照）。
`, Rubric, sourceText, translationText)
}

// jsonShape describes the reply for providers without native schemas.
const jsonShape = `只输出一个 JSON 对象，不要输出 Markdown 或其他文字，结构如下：
{
  "score": <0-15 的整数>,
  "comments": "<中文评语>",
  "standardTranslation": "<英文参考译文>",
  "improvements": [
    {"originalSnippet": "<原片段>", "revisedSnippet": "<修改后片段>", "explanation": "<中文解释>"}
  ],
  "vocabulary": ["<中英对照表达>"]
}`
