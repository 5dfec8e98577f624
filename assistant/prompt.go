package assistant

import (
	"fmt"
	"strings"

	"github.com/yeorum/leavedesk/leave"
)

// buildPrompt composes the single text prompt: system instructions, the user
// context block, and the question. The vocabulary stays Korean to match the
// company's working language.
func buildPrompt(snap *leave.Snapshot, employee string, balance leave.Balance, question string) string {
	var b strings.Builder

	b.WriteString("당신은 우리 회사의 친절하고 유능한 휴가 담당 챗봇입니다.\n")
	b.WriteString("아래 '사용자 정보 및 규정'을 바탕으로 사용자의 질문에 대해 명확하고 간결하게 답변해주세요.\n")
	b.WriteString("휴가 신청을 도와달라고 하면, 필요한 정보를 확인하고 신청 절차를 안내해주세요.\n\n")

	b.WriteString("---\n[사용자 정보 및 규정]\n")
	fmt.Fprintf(&b, "- 현재 사용자: %s\n", employee)
	fmt.Fprintf(&b, "- 남은 연차: %s일\n", balance.Remaining)
	fmt.Fprintf(&b, "- 사용자의 휴가 내역:\n%s", renderHistory(snap.RequestsFor(employee)))
	fmt.Fprintf(&b, "- 회사 휴가 규정: 연차는 자유롭게 사용 가능. 병가 신청 시에는 진단서 등 증빙 서류가 필요할 수 있음. "+
		"반차 2회는 연차 1일로 계산됨. 일일 최대 휴가 인원은 %d명으로 제한됨.\n", snap.DailyLimit())
	fmt.Fprintf(&b, "- 동시 휴가 불가 정책:\n%s", renderConstraints(snap.Constraints()))
	b.WriteString("---\n\n")

	b.WriteString("[사용자 질문]\n")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

func renderHistory(requests []leave.VacationRequest) string {
	if len(requests) == 0 {
		return "  (없음)\n"
	}
	var b strings.Builder
	for _, r := range requests {
		fmt.Fprintf(&b, "  %s ~ %s  %s  %s  (신청일 %s)\n",
			r.Start, r.End, r.Type.Label(), r.Status.Label(), r.RequestedAt)
	}
	return b.String()
}

func renderConstraints(constraints []leave.Constraint) string {
	if len(constraints) == 0 {
		return "  (없음)\n"
	}
	var b strings.Builder
	for _, c := range constraints {
		fmt.Fprintf(&b, "  %s - %s\n", c.A, c.B)
	}
	return b.String()
}
